package birthdays

import (
	"errors"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// ValidationError rejects user input before any store call is made.
type ValidationError struct {
	Field string

	// Key is the translation key of Message.
	Key     string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError reports an operation that needs a session while none is active.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return config.MsgNoSession }

func (e *AuthError) Unwrap() error { return e.Err }

// StoreError wraps a failed read or write. Message is what the store said.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }

func newStoreError(op string, err error) *StoreError {
	msg := err.Error()
	var apiErr *store.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &StoreError{Op: op, Message: msg, Err: err}
}

func invalid(field, key, msg string) *ValidationError {
	return &ValidationError{Field: field, Key: key, Message: msg}
}
