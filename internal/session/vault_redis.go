package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/nacl/secretbox"
)

const tokenKey = "console:session:token"

// RedisVault stores the sealed credential token under a single Redis key.
// The token is a bearer credential for a citizen registry, so it is never
// written in plaintext.
type RedisVault struct {
	client  redis.Cmdable
	sealKey [32]byte
}

// NewRedisVault builds a vault from a hex-encoded 32-byte seal key.
func NewRedisVault(client redis.Cmdable, hexKey string) (*RedisVault, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode seal key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", len(raw))
	}
	v := &RedisVault{client: client}
	copy(v.sealKey[:], raw)
	return v, nil
}

// Save seals and stores the token.
func (v *RedisVault) Save(ctx context.Context, token string) error {
	sealed, err := seal([]byte(token), &v.sealKey)
	if err != nil {
		return err
	}
	if err := v.client.Set(ctx, tokenKey, sealed, 0).Err(); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	return nil
}

// Load returns the unsealed token, or "" when no session is persisted.
// A token that fails to unseal (rotated seal key, tampered value) is
// treated as absent and removed.
func (v *RedisVault) Load(ctx context.Context) (string, error) {
	sealed, err := v.client.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}

	token, err := unseal(sealed, &v.sealKey)
	if err != nil {
		_ = v.client.Del(ctx, tokenKey).Err()
		return "", nil
	}
	return string(token), nil
}

// Delete removes the persisted token.
func (v *RedisVault) Delete(ctx context.Context) error {
	if err := v.client.Del(ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

func seal(plaintext []byte, key *[32]byte) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], plaintext, &nonce, key)
	return base64.RawStdEncoding.EncodeToString(out), nil
}

func unseal(encoded string, key *[32]byte) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode sealed token: %w", err)
	}
	if len(raw) < 24 {
		return nil, errors.New("sealed token too short")
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plaintext, ok := secretbox.Open(nil, raw[24:], &nonce, key)
	if !ok {
		return nil, errors.New("could not unseal token")
	}
	return plaintext, nil
}
