// Package sqlite is the local record store: a single-file database with
// bcrypt accounts, migrated with goose on open.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
	"github.com/tartampluch/go-birthdays/internal/store/localauth"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements store.Backend on SQLite.
type Store struct {
	*localauth.Authenticator
	db *sql.DB
}

var _ store.Backend = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
// Use config.SQLiteMemoryDSN for a throwaway database.
func Open(ctx context.Context, path string, bcryptCost int) (*Store, error) {
	db, err := sql.Open(config.SQLiteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrOpenDB, err)
	}
	// One connection: pragmas stick and an in-memory database is not re-created per conn.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, config.SQLitePragmas); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrOpenDB, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Info(config.MsgMigrated,
		config.LogKeyComponent, config.CompSQLite,
		config.LogKeyFile, path)

	return &Store{
		Authenticator: localauth.New(&accounts{db: db}, bcryptCost, config.BackendSQLite),
		db:            db,
	}, nil
}

// RunMigrations applies the embedded schema. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(config.GooseDialectSQLite); err != nil {
		return fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}
	if err := goose.UpContext(ctx, db, config.MigrationsDir); err != nil {
		return fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListRecords returns the owner's birthdays, oldest date of birth first.
func (s *Store) ListRecords(ctx context.Context, owner string) ([]engine.Record, error) {
	if err := s.checkOwner(owner); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date_of_birth FROM birthdays
		 WHERE user_id = ?
		 ORDER BY date_of_birth ASC, rowid ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListRecords, err)
	}
	defer rows.Close()

	var out []engine.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListRecords, err)
	}
	return out, nil
}

// InsertRecord stores a new birthday for owner, who must be signed in.
func (s *Store) InsertRecord(ctx context.Context, owner, name string, dateOfBirth time.Time) (engine.Record, error) {
	if err := s.checkOwner(owner); err != nil {
		return engine.Record{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rec := engine.Record{ID: uuid.NewString(), Name: name, DateOfBirth: dateOnly(dateOfBirth)}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO birthdays (id, user_id, name, date_of_birth, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, owner, rec.Name, rec.DateOfBirth.Format(config.DateFormatFullDash), now, now)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrInsertRecord, err)
	}

	slog.Debug(config.MsgRecordAdded,
		config.LogKeyComponent, config.CompSQLite,
		config.LogKeyID, rec.ID)
	return rec, nil
}

// UpdateRecord edits a birthday of the signed-in user. Records of other users
// are reported as store.ErrNotFound.
func (s *Store) UpdateRecord(ctx context.Context, id, name string, dateOfBirth time.Time) (engine.Record, error) {
	owner, err := s.Owner()
	if err != nil {
		return engine.Record{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE birthdays SET name = ?, date_of_birth = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING id, name, date_of_birth`,
		name, dateOnly(dateOfBirth).Format(config.DateFormatFullDash),
		time.Now().UTC().Format(time.RFC3339Nano), id, owner)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Record{}, store.ErrNotFound
	}
	if err != nil {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrUpdateRecord, err)
	}
	return rec, nil
}

func (s *Store) checkOwner(owner string) error {
	current, err := s.Owner()
	if err != nil {
		return err
	}
	if current != owner {
		return store.ErrForbidden
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (engine.Record, error) {
	var (
		r   engine.Record
		dob string
	)
	if err := row.Scan(&r.ID, &r.Name, &dob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.Record{}, err
		}
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrScanRecord, err)
	}
	t, err := time.Parse(config.DateFormatFullDash, dob)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrScanRecord, err)
	}
	r.DateOfBirth = t
	return r, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// accounts implements localauth.Accounts.
type accounts struct {
	db *sql.DB
}

func (a *accounts) CreateAccount(ctx context.Context, acc localauth.Account) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		acc.ID, acc.Email, acc.PasswordHash, acc.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return store.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (a *accounts) FindAccountByEmail(ctx context.Context, email string) (localauth.Account, error) {
	var (
		acc     localauth.Account
		created string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return localauth.Account{}, store.ErrNotFound
	}
	if err != nil {
		return localauth.Account{}, err
	}
	acc.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return acc, nil
}
