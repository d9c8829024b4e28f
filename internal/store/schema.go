// Package store keeps legislative rosters in a SQLite database so a body can
// be defined once and reused as simulation input.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the roster store.
const schemaV1 = `
-- Single-row roster header
CREATE TABLE IF NOT EXISTS roster_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    ideal_dimension INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

-- Members; position preserves declaration order (and thus handle order)
CREATE TABLE IF NOT EXISTS members (
    position INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    ideal TEXT NOT NULL,  -- JSON array of floats
    bias REAL NOT NULL DEFAULT 0,
    swing REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS parties (
    position INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    discipline REAL NOT NULL DEFAULT 0
);

-- Party membership by member id; not a foreign key so that dangling
-- references surface as loader errors rather than insert failures.
CREATE TABLE IF NOT EXISTS party_members (
    party_position INTEGER NOT NULL REFERENCES parties(position) ON DELETE CASCADE,
    slot INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    PRIMARY KEY (party_position, slot)
);

CREATE TABLE IF NOT EXISTS edges (
    position INTEGER PRIMARY KEY,
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    weight REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);

-- Schema version
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema initializes the database schema.
// It creates all tables and applies migrations as needed.
// Runs integrity validation before migrations on existing databases.
func InitSchema(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	if err := ValidateIntegrity(ctx, db); err != nil {
		return fmt.Errorf("database integrity check failed: %w", err)
	}

	if currentVersion > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, SchemaVersion)
	}

	return nil
}

// getSchemaVersion returns the current schema version from the database.
// Returns 0 and an error if the schema_version table doesn't exist.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// createSchema creates the initial database schema.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// ValidateIntegrity runs SQLite's integrity and foreign key checks and
// reports every problem row.
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	problems, err := pragmaRows(ctx, db, "integrity_check")
	if err != nil {
		return err
	}
	if len(problems) != 1 || problems[0] != "ok" {
		return fmt.Errorf("integrity_check failed: %s", strings.Join(problems, "; "))
	}

	if problems, err = pragmaRows(ctx, db, "foreign_key_check"); err != nil {
		return err
	}
	if len(problems) > 0 {
		return fmt.Errorf("foreign_key_check failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// pragmaRows runs PRAGMA name and flattens each result row into one string.
func pragmaRows(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA "+name)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}

	var out []string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", name, err)
		}
		fields := make([]string, len(cols))
		for i, v := range vals {
			fields[i] = cols[i] + "=" + v.String
		}
		if len(cols) == 1 {
			fields[0] = vals[0].String
		}
		out = append(out, strings.Join(fields, " "))
	}
	return out, rows.Err()
}
