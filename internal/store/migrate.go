package store

import (
	"context"
	"database/sql"
	"fmt"
)

// cacheSchema holds one step per schema version: applying step i moves a
// database from version i to i+1. The version lives in PRAGMA user_version,
// which is zero for a freshly created file.
var cacheSchema = []string{
	`CREATE TABLE cache_entries (
		location    TEXT PRIMARY KEY,
		payload     BLOB NOT NULL,
		modified_at TEXT NOT NULL
	)`,
}

func schemaVersion() int { return len(cacheSchema) }

// upgradeSchema applies the missing steps in one transaction. A database
// written by a newer feedcache is refused rather than modified.
func upgradeSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion() {
		return fmt.Errorf("cache database schema version %d is newer than supported %d", version, schemaVersion())
	}
	if version == schemaVersion() {
		return nil
	}

	for i, step := range cacheSchema[version:] {
		if _, err := tx.ExecContext(ctx, step); err != nil {
			return fmt.Errorf("upgrade cache schema to version %d: %w", version+i+1, err)
		}
	}
	// PRAGMA statements do not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion())); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}
