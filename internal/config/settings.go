package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Settings holds the runtime configuration read from the environment.
// Compile-time constants live in config.go; anything an operator may want to
// change without rebuilding lives here.
type Settings struct {
	// Backend selects the record store: supabase, sqlite or postgres.
	Backend string `env:"BIRTHDAYS_BACKEND" envDefault:"sqlite"`

	// Hosted backend (GoTrue + PostgREST).
	SupabaseURL string `env:"BIRTHDAYS_SUPABASE_URL"`
	SupabaseKey string `env:"BIRTHDAYS_SUPABASE_KEY"`

	// SQLitePath defaults to <UserCacheDir>/<AppID>/birthdays.db when empty.
	SQLitePath  string `env:"BIRTHDAYS_SQLITE_PATH"`
	PostgresDSN string `env:"BIRTHDAYS_POSTGRES_DSN"`

	// FeedPort seeds the feed server port preference on first run.
	FeedPort string `env:"BIRTHDAYS_FEED_PORT" envDefault:"18080"`

	// Credentials used by the headless -list mode.
	Email    string `env:"BIRTHDAYS_EMAIL"`
	Password string `env:"BIRTHDAYS_PASSWORD"`

	BcryptCost int `env:"BIRTHDAYS_BCRYPT_COST" envDefault:"10"`
}

// LoadSettings parses the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrParseEnv, err)
	}
	return s, nil
}

// LoadSettingsFrom parses an explicit environment instead of the process one.
func LoadSettingsFrom(environ map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrParseEnv, err)
	}
	return s, nil
}

// Validate checks that the selected backend has everything it needs.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSupabase:
		if s.SupabaseURL == "" {
			return errors.New(ErrSupabaseURL)
		}
		if s.SupabaseKey == "" {
			return errors.New(ErrSupabaseKey)
		}
	case BackendPostgres:
		if s.PostgresDSN == "" {
			return errors.New(ErrPostgresDSN)
		}
	case BackendSQLite:
	default:
		return fmt.Errorf("%s: %q", ErrUnknownBackend, s.Backend)
	}

	if err := ValidatePort(s.FeedPort); err != nil {
		return err
	}

	if s.BcryptCost < MinBcryptCost || s.BcryptCost > MaxBcryptCost {
		return errors.New(ErrBcryptCost)
	}
	return nil
}

// ValidatePort checks a TCP port string (1-65535).
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
