package session

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is the process-wide session holder. Handlers run
// concurrently, so access is mutex-guarded; mutations are idempotent and
// last-write-wins, which is acceptable because only one login or logout
// can be operator-triggered at a time.
type InMemoryStore struct {
	mu    sync.Mutex
	state Session
	vault TokenVault
}

// New creates an empty session store. A nil vault disables persistence.
func New(vault TokenVault) *InMemoryStore {
	return &InMemoryStore{vault: vault}
}

// Get returns a snapshot with the derived Authenticated flag.
func (s *InMemoryStore) Get() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Authenticated = snap.Token != ""
	return snap
}

// SetAuthenticated stores the identity and token and persists the token.
// The in-memory state is updated even when persistence fails so a vault
// outage never blocks a successful login.
func (s *InMemoryStore) SetAuthenticated(ctx context.Context, user Identity, token string, expiresAt time.Time) error {
	s.mu.Lock()
	s.state = Session{Token: token, User: user, ExpiresAt: expiresAt}
	s.mu.Unlock()

	if s.vault == nil {
		return nil
	}
	return s.vault.Save(ctx, token)
}

// Clear resets to an empty session and removes the persisted token.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = Session{}
	s.mu.Unlock()

	if s.vault == nil {
		return nil
	}
	return s.vault.Delete(ctx)
}

// SetBusy mirrors in-flight login/logout calls for the view layer.
func (s *InMemoryStore) SetBusy(busy bool) {
	s.mu.Lock()
	s.state.Busy = busy
	s.mu.Unlock()
}

// Rehydrate restores a persisted token on process start. The operator
// profile is not persisted, so a rehydrated session is authenticated but
// profile-less until the next login or /auth/me call.
func (s *InMemoryStore) Rehydrate(ctx context.Context) error {
	if s.vault == nil {
		return nil
	}
	token, err := s.vault.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	s.mu.Lock()
	s.state = Session{Token: token}
	s.mu.Unlock()
	return nil
}
