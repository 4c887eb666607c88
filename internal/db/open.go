package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the record store for the given driver and returns a
// database/sql handle. The returned close func releases everything Open
// acquired.
func Open(ctx context.Context, driver, databaseURL string) (*sql.DB, func(), error) {
	switch driver {
	case DriverPostgres:
		if databaseURL == "" {
			return nil, nil, fmt.Errorf("set DATABASE_URL")
		}
		pool, err := ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		db := stdlib.OpenDBFromPool(pool)
		return db, func() {
			_ = db.Close()
			pool.Close()
		}, nil
	case DriverSQLite:
		if databaseURL == "" {
			databaseURL = "foodbridge.db"
		}
		db, err := OpenSQLite(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
