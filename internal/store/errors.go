package store

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-birthdays/internal/config"
)

// Sentinel errors shared by every backend. Compare with errors.Is.
var (
	ErrNotFound             = errors.New(config.MsgNotFound)
	ErrForbidden            = errors.New(config.MsgForbidden)
	ErrInvalidCredentials   = errors.New(config.MsgInvalidCredentials)
	ErrNoSession            = errors.New(config.MsgNoSession)
	ErrConfirmationRequired = errors.New(config.MsgConfirmationRequired)
	ErrEmailTaken           = errors.New(config.MsgEmailTaken)
	ErrCredentialsRequired  = errors.New(config.MsgCredentialsRequired)
)

// APIError is a non-2xx answer from a remote record store.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}
