// Package postgres is the self-hosted record store on PostgreSQL.
// Queries go through a pgx pool; goose migrates through a database/sql view of
// the same pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
	"github.com/tartampluch/go-birthdays/internal/store/localauth"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements store.Backend on PostgreSQL.
type Store struct {
	*localauth.Authenticator
	pool *pgxpool.Pool
}

var _ store.Backend = (*Store)(nil)

// Open connects to dsn and applies migrations.
func Open(ctx context.Context, dsn string, bcryptCost int) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrOpenDB, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrOpenDB, err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info(config.MsgMigrated, config.LogKeyComponent, config.CompPostgres)

	return &Store{
		Authenticator: localauth.New(&accounts{pool: pool}, bcryptCost, config.BackendPostgres),
		pool:          pool,
	}, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(config.GooseDialectPostgres); err != nil {
		return fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}
	if err := goose.UpContext(ctx, db, config.MigrationsDir); err != nil {
		return fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ListRecords returns the owner's birthdays, oldest date of birth first.
func (s *Store) ListRecords(ctx context.Context, owner string) ([]engine.Record, error) {
	if err := s.checkOwner(owner); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, date_of_birth FROM birthdays
		 WHERE user_id = $1
		 ORDER BY date_of_birth ASC, seq ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListRecords, err)
	}

	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (engine.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListRecords, err)
	}
	return recs, nil
}

// InsertRecord stores a new birthday for owner, who must be signed in.
func (s *Store) InsertRecord(ctx context.Context, owner, name string, dateOfBirth time.Time) (engine.Record, error) {
	if err := s.checkOwner(owner); err != nil {
		return engine.Record{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO birthdays (id, user_id, name, date_of_birth)
		 VALUES ($1, $2, $3, $4::date)
		 RETURNING id, name, date_of_birth`,
		uuid.NewString(), owner, name, dateOfBirth.Format(config.DateFormatFullDash))

	rec, err := scanRecord(row)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrInsertRecord, err)
	}

	slog.Debug(config.MsgRecordAdded,
		config.LogKeyComponent, config.CompPostgres,
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

	row := s.pool.QueryRow(ctx,
		`UPDATE birthdays SET name = $1, date_of_birth = $2::date, updated_at = now()
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, name, date_of_birth`,
		name, dateOfBirth.Format(config.DateFormatFullDash), id, owner)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
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

func scanRecord(row pgx.Row) (engine.Record, error) {
	var (
		r   engine.Record
		dob time.Time
	)
	if err := row.Scan(&r.ID, &r.Name, &dob); err != nil {
		return engine.Record{}, err
	}
	y, m, d := dob.Date()
	r.DateOfBirth = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return r, nil
}

// accounts implements localauth.Accounts.
type accounts struct {
	pool *pgxpool.Pool
}

func (a *accounts) CreateAccount(ctx context.Context, acc localauth.Account) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		acc.ID, acc.Email, acc.PasswordHash, acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == config.PgUniqueViolation {
			return store.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (a *accounts) FindAccountByEmail(ctx context.Context, email string) (localauth.Account, error) {
	var acc localauth.Account
	err := a.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`, email).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return localauth.Account{}, store.ErrNotFound
	}
	if err != nil {
		return localauth.Account{}, err
	}
	return acc, nil
}
