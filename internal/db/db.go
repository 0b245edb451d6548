// Package db owns the database handle and schema bootstrap.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DB struct {
	*sqlx.DB
}

// Open connects to postgres with a bounded pool. Acquisition beyond
// the pool limit blocks the requesting pipeline rather than failing.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*DB, error) {
	sqlDB, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{DB: sqlDB}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id serial PRIMARY KEY,
    email text NOT NULL,
    email_verified boolean NOT NULL DEFAULT false,
    phone text,
    phone_verified boolean NOT NULL DEFAULT false,
    is_active boolean NOT NULL DEFAULT true,
    first_name text,
    last_name text,
    middle_name text,
    gender text NOT NULL DEFAULT 'undefined',
    birthdate timestamptz,
    last_login_at timestamptz NOT NULL DEFAULT NOW(),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS identities (
    user_id integer NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    email text NOT NULL,
    password text,
    provider text NOT NULL,
    saga_id text NOT NULL,
    CONSTRAINT identities_email_provider_unique UNIQUE (email, provider)
);

CREATE INDEX IF NOT EXISTS identities_user_id_idx
ON identities (user_id);

CREATE TABLE IF NOT EXISTS user_roles (
    id serial PRIMARY KEY,
    user_id integer NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name text NOT NULL
);

CREATE INDEX IF NOT EXISTS user_roles_user_id_idx
ON user_roles (user_id);

CREATE TABLE IF NOT EXISTS reset_tokens (
    token text PRIMARY KEY,
    email text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables this service owns.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.ExecContext(ctx, schema)
	return err
}
