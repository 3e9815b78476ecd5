// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	driver := "postgres"
	if dbType == "sqlite" {
		driver = "sqlite"
		url = sqliteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	// sqlite allows a single writer
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}

	return conn, nil
}

// sqliteDSN enables foreign keys and a busy timeout unless the caller
// already passed pragmas.
func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is plain DDL understood by both Postgres and SQLite.
const Schema = `
-- Login identities
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Roles
CREATE TABLE IF NOT EXISTS realtor (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES account(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS couple (
    id TEXT PRIMARY KEY,
    realtor_id TEXT NOT NULL REFERENCES realtor(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_couple_realtor_id ON couple(realtor_id);

CREATE TABLE IF NOT EXISTS homebuyer (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES account(id) ON DELETE CASCADE,
    couple_id TEXT REFERENCES couple(id)
);

CREATE INDEX IF NOT EXISTS idx_homebuyer_couple_id ON homebuyer(couple_id);

-- Invitations
CREATE TABLE IF NOT EXISTS pending_couple (
    id TEXT PRIMARY KEY,
    realtor_id TEXT NOT NULL REFERENCES realtor(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pending_couple_realtor_id ON pending_couple(realtor_id);

CREATE TABLE IF NOT EXISTS pending_homebuyer (
    id TEXT PRIMARY KEY,
    pending_couple_id TEXT NOT NULL REFERENCES pending_couple(id) ON DELETE CASCADE,
    email TEXT NOT NULL UNIQUE,
    token_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pending_homebuyer_couple_id ON pending_homebuyer(pending_couple_id);

-- Houses and evaluation
CREATE TABLE IF NOT EXISTS house (
    id TEXT PRIMARY KEY,
    couple_id TEXT NOT NULL REFERENCES couple(id),
    nickname TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_house_couple_id ON house(couple_id);

CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    couple_id TEXT NOT NULL REFERENCES couple(id),
    summary TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_category_couple_id ON category(couple_id);

CREATE TABLE IF NOT EXISTS grade (
    id TEXT PRIMARY KEY,
    homebuyer_id TEXT NOT NULL REFERENCES homebuyer(id),
    category_id TEXT NOT NULL REFERENCES category(id),
    house_id TEXT NOT NULL REFERENCES house(id),
    score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (homebuyer_id, category_id, house_id)
);

CREATE INDEX IF NOT EXISTS idx_grade_house_id ON grade(house_id);
`
