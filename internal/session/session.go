// Package session holds the single operator session for a running console
// process: the credential token, the operator identity derived at login,
// and an advisory busy flag for the view layer.
package session

import (
	"context"
	"time"
)

// Identity describes the authenticated operator. The token endpoint does
// not return profile data, so all three fields derive from the login
// identifier.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Session is a read-only snapshot of the current state. Authenticated is
// derived: true iff Token is present.
type Session struct {
	Token         string    `json:"-"`
	User          Identity  `json:"user"`
	Authenticated bool      `json:"authenticated"`
	Busy          bool      `json:"busy"`
	ExpiresAt     time.Time `json:"expiresAt,omitzero"`
}

// Store is the narrow mutation contract around the session. Exactly one
// session exists per process; only the auth gateway and the upstream
// client's 401 handler mutate it.
type Store interface {
	Get() Session
	SetAuthenticated(ctx context.Context, user Identity, token string, expiresAt time.Time) error
	Clear(ctx context.Context) error
	SetBusy(busy bool)
}

// TokenVault persists the credential token under one durable key so a
// process restart preserves the session. Implementations must treat the
// token as sensitive material.
type TokenVault interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Delete(ctx context.Context) error
}
