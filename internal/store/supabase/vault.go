package supabase

import (
	"errors"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/zalando/go-keyring"
)

// TokenVault persists the refresh token between runs.
type TokenVault interface {
	// Load returns "" when nothing is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// KeyringVault stores the token in the OS keyring (Keychain, Secret Service, WinCred).
type KeyringVault struct {
	Service string
	Account string
}

// NewKeyringVault returns the vault used by the desktop app.
func NewKeyringVault() KeyringVault {
	return KeyringVault{Service: config.KeyringService, Account: config.KeyringSession}
}

func (v KeyringVault) Load() (string, error) {
	token, err := keyring.Get(v.Service, v.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (v KeyringVault) Save(token string) error {
	return keyring.Set(v.Service, v.Account, token)
}

func (v KeyringVault) Clear() error {
	err := keyring.Delete(v.Service, v.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
