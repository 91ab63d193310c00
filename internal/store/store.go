// Package store defines the record store capability the application depends on:
// per-user scoped birthday records plus the authentication that scopes them.
// Concrete backends live in the sub-packages.
package store

import (
	"context"
	"time"

	"github.com/tartampluch/go-birthdays/internal/engine"
)

// Session is an authenticated identity. The zero value is never handed out;
// "signed out" is represented by a nil *Session.
type Session struct {
	UserID string
	Email  string

	// Hosted backend tokens. Local backends leave them empty.
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token should be refreshed at now.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(s.ExpiresAt)
}

// RecordStore provides per-user CRUD over birthday records.
type RecordStore interface {
	// ListRecords returns the owner's records ordered by date of birth ascending.
	ListRecords(ctx context.Context, owner string) ([]engine.Record, error)

	// InsertRecord creates a record and returns it with its assigned ID.
	InsertRecord(ctx context.Context, owner, name string, dateOfBirth time.Time) (engine.Record, error)

	// UpdateRecord replaces name and date of birth. It returns ErrNotFound when the
	// id does not exist or is not visible to the signed-in user.
	UpdateRecord(ctx context.Context, id, name string, dateOfBirth time.Time) (engine.Record, error)
}

// Authenticator manages the signed-in identity of a backend.
type Authenticator interface {
	// CurrentSession returns nil, nil when nobody is signed in.
	CurrentSession(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp returns ErrConfirmationRequired when the account exists but cannot be
	// used before the email address is confirmed.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// Backend is a complete record store.
type Backend interface {
	RecordStore
	Authenticator
	Close() error
}
