package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core/account"
)

// ErrNotFound is returned by a Store when no session is saved under the id.
var ErrNotFound = errors.New("session not found")

// Record is a session as persisted between visits.
type Record struct {
	ID        string
	User      account.User
	Token     string
	UpdatedAt time.Time
}

// Store persists sessions between visits.
type Store interface {
	Load(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Record, error)
	// Purge deletes sessions not updated since `before` and returns how many were removed.
	Purge(ctx context.Context, before time.Time) (int, error)
}
