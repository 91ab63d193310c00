// Package localauth implements password accounts for the self-hosted backends.
// Hashes are bcrypt; the session lives for the lifetime of the process.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Account is a stored login.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Accounts persists accounts.
type Accounts interface {
	// CreateAccount returns store.ErrEmailTaken on a duplicate email.
	CreateAccount(ctx context.Context, acc Account) error

	// FindAccountByEmail returns store.ErrNotFound when no account matches.
	FindAccountByEmail(ctx context.Context, email string) (Account, error)
}

// Authenticator implements store.Authenticator over an Accounts repository.
type Authenticator struct {
	accounts Accounts
	cost     int
	backend  string

	mu      sync.RWMutex
	current *store.Session
}

// New returns an Authenticator hashing with the given bcrypt cost.
// backend only labels log lines.
func New(accounts Accounts, cost int, backend string) *Authenticator {
	return &Authenticator{accounts: accounts, cost: cost, backend: backend}
}

// CurrentSession returns a copy of the active session, or nil.
func (a *Authenticator) CurrentSession(_ context.Context) (*store.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return nil, nil
	}
	s := *a.current
	return &s, nil
}

// Owner returns the signed-in user id, or store.ErrNoSession.
func (a *Authenticator) Owner() (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil {
		return "", store.ErrNoSession
	}
	return a.current.UserID, nil
}

// SignIn checks the password and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*store.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, store.ErrCredentialsRequired
	}

	acc, err := a.accounts.FindAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFindAccount, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, store.ErrInvalidCredentials
	}

	slog.Info(config.MsgSignedIn,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyBackend, a.backend,
		config.LogKeyUser, acc.ID)
	return a.open(acc), nil
}

// SignUp creates the account and signs it in. Local accounts need no confirmation.
func (a *Authenticator) SignUp(ctx context.Context, email, password string) (*store.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, store.ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHashPassword, err)
	}

	acc := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", config.ErrCreateAccount, err)
	}

	slog.Info(config.MsgSignedUp,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyBackend, a.backend,
		config.LogKeyUser, acc.ID)
	return a.open(acc), nil
}

// SignOut forgets the session. Signing out twice is not an error.
func (a *Authenticator) SignOut(_ context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()

	slog.Info(config.MsgSignedOut,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyBackend, a.backend)
	return nil
}

func (a *Authenticator) open(acc Account) *store.Session {
	s := &store.Session{UserID: acc.ID, Email: acc.Email}

	a.mu.Lock()
	a.current = s
	a.mu.Unlock()

	out := *s
	return &out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
