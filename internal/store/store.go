package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodbridge/internal/db"
	"foodbridge/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

// runner is satisfied by both *sql.DB and *sql.Tx so every repository method
// can run inside or outside a transaction.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repositories groups the per-entity repositories sharing one runner.
type Repositories struct {
	Users     *UserRepository
	Donations *DonationRepository
	Requests  *RequestRepository
}

func newRepositories(run runner, builder sq.StatementBuilderType) Repositories {
	return Repositories{
		Users:     &UserRepository{run: run, builder: builder},
		Donations: &DonationRepository{run: run, builder: builder},
		Requests:  &RequestRepository{run: run, builder: builder},
	}
}

// Store is the record store. The embedded repositories run statements
// directly on the database; InTx hands out repositories bound to a single
// transaction.
type Store struct {
	Repositories

	db      *sql.DB
	builder sq.StatementBuilderType
}

func New(database *sql.DB, driver string) *Store {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == db.DriverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &Store{
		Repositories: newRepositories(database, builder),
		db:           database,
		builder:      builder,
	}
}

// InTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back.
func (s *Store) InTx(ctx context.Context, fn func(tx Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStoreError(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(newRepositories(tx, s.builder)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapStoreError(err, "failed to commit transaction")
	}

	return nil
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return wrapStoreError(s.db.PingContext(ctx), "failed to ping store")
}

// wrapStoreError classifies a driver error into the store taxonomy, keeping
// the original error in the chain for logging.
func wrapStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", msg, types.ErrStoreTimeout, err)
	}

	return fmt.Errorf("%s: %w: %w", msg, types.ErrStore, err)
}

func get(ctx context.Context, run runner, dst any, query string, args ...any) (bool, error) {
	err := sqlscan.Get(ctx, run, dst, query, args...)
	if err != nil {
		if sqlscan.NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
