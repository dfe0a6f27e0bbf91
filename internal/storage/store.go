// Package storage provides abstractions for the client's durable local state.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/triptangle/internal/models"
)

// ErrNoSession is returned by Load when nothing usable is stored: either no session
// was ever saved, it was cleared, or the stored record could not be decoded.
var ErrNoSession = errors.New("no stored session")

// SessionStore persists the authenticated user together with their bearer token.
// This abstraction allows swapping the local persistence (SQLite, keychain, memory)
// without changing flows or the gateway.
type SessionStore interface {
	// Save atomically replaces the stored session. A reader never observes the new
	// token with the old user or the other way round.
	Save(ctx context.Context, user models.AuthenticatedUser, token string) error

	// Load returns the stored session, or ErrNoSession.
	Load(ctx context.Context) (*models.Session, error)

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
