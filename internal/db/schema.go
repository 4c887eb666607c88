package db

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE SCHEMA IF NOT EXISTS foodbridge;

CREATE TABLE IF NOT EXISTS foodbridge.users (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    password   TEXT NOT NULL,
    role       TEXT NOT NULL CHECK (role IN ('donor', 'ngo')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_email_role ON foodbridge.users(email, role);

CREATE TABLE IF NOT EXISTS foodbridge.donations (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES foodbridge.users(id),
    food_item   TEXT NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    expiry_date TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'accepted', 'distributed')),
    version     INTEGER NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_donations_status ON foodbridge.donations(status);

CREATE TABLE IF NOT EXISTS foodbridge.requests (
    id          TEXT PRIMARY KEY,
    ngo_id      TEXT NOT NULL REFERENCES foodbridge.users(id),
    donation_id TEXT NOT NULL REFERENCES foodbridge.donations(id),
    status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_requests_ngo ON foodbridge.requests(ngo_id);
CREATE INDEX IF NOT EXISTS idx_requests_donation ON foodbridge.requests(donation_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    password   TEXT NOT NULL,
    role       TEXT NOT NULL CHECK (role IN ('donor', 'ngo')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_email_role ON users(email, role);

CREATE TABLE IF NOT EXISTS donations (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id),
    food_item   TEXT NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    expiry_date TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'accepted', 'distributed')),
    version     INTEGER NOT NULL DEFAULT 1,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status);

CREATE TABLE IF NOT EXISTS requests (
    id          TEXT PRIMARY KEY,
    ngo_id      TEXT NOT NULL REFERENCES users(id),
    donation_id TEXT NOT NULL REFERENCES donations(id),
    status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_requests_ngo ON requests(ngo_id);
CREATE INDEX IF NOT EXISTS idx_requests_donation ON requests(donation_id);
`

// Migrate applies the schema for the given driver. Every statement is
// idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case DriverPostgres:
		schema = postgresSchema
	case DriverSQLite:
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
