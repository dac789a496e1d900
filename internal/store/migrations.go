package store

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one schema step. Apply must be idempotent: it only creates
// what is missing and never drops collections or records.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// migrations is ordered by version. Bumping Config.Version past the last
// applied step is the only way to trigger an upgrade.
var migrations = []migration{
	{Version: 1, Name: "initial_collections", Apply: migrateV001},
	{Version: 2, Name: "assets_and_categories", Apply: migrateV002},
}

// SchemaVersion is the newest schema version known to this build.
const SchemaVersion = 2

// migrateV001 creates pages, articles (indexed by date) and metadata.
func migrateV001(tx *sql.Tx) error {
	for _, c := range []CollectionSchema{pagesSchema, articlesSchema, metadataSchema} {
		if err := ensureCollection(tx, c); err != nil {
			return err
		}
	}
	return nil
}

// migrateV002 adds the assets collection and the multi-entry categories
// index on articles. Articles stored under v1 are indexed on the way.
func migrateV002(tx *sql.Tx) error {
	if err := ensureCollection(tx, assetsSchema); err != nil {
		return err
	}
	return ensureIndex(tx, Articles, categoriesIndex)
}

func ensureCollection(tx *sql.Tx, c CollectionSchema) error {
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO collections (name, key_path) VALUES (?, ?)`,
		c.Name, c.KeyPath,
	); err != nil {
		return fmt.Errorf("create collection %s: %w", c.Name, err)
	}
	for _, ix := range c.Indexes {
		if err := ensureIndex(tx, c.Name, ix); err != nil {
			return err
		}
	}
	return nil
}

// ensureIndex declares ix on collection and backfills entries for records
// already stored when the index is new.
func ensureIndex(tx *sql.Tx, collection string, ix IndexSchema) error {
	res, err := tx.Exec(
		`INSERT OR IGNORE INTO collection_indexes (collection, name, key_path, multi_entry) VALUES (?, ?, ?, ?)`,
		collection, ix.Name, ix.KeyPath, boolInt(ix.MultiEntry),
	)
	if err != nil {
		return fmt.Errorf("create index %s.%s: %w", collection, ix.Name, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return err
	}

	rows, err := tx.Query(`SELECT key, value FROM records WHERE collection = ?`, collection)
	if err != nil {
		return fmt.Errorf("backfill %s.%s: %w", collection, ix.Name, err)
	}
	type pending struct {
		key    string
		values []string
	}
	var backlog []pending
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return err
		}
		rec, err := decodeRecord(value)
		if err != nil {
			rows.Close()
			return fmt.Errorf("backfill %s/%s: %w", collection, key, err)
		}
		values, err := indexValues(rec, ix)
		if err != nil {
			rows.Close()
			return err
		}
		backlog = append(backlog, pending{key: key, values: values})
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, p := range backlog {
		if err := insertIndexEntries(tx, collection, ix.Name, p.key, p.values); err != nil {
			return err
		}
	}
	return nil
}

// runMigrations creates the base tables, refuses targets past the last step
// and databases written by a newer schema than target, then applies every step up to target that
// has not been recorded yet. It returns the applied version.
func runMigrations(ctx context.Context, db *sql.DB, target int, steps []migration) (int, error) {
	if n := len(steps); n == 0 || target > steps[n-1].Version {
		return 0, fmt.Errorf("%w: %d", ErrUnknownVersion, target)
	}
	if _, err := db.ExecContext(ctx, baseSchema); err != nil {
		return 0, fmt.Errorf("create base schema: %w", err)
	}

	current, err := appliedVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current > target {
		return current, fmt.Errorf("%w: stored %d, requested %d", ErrVersionDowngrade, current, target)
	}

	for _, m := range steps {
		if m.Version > target {
			break
		}
		applied, err := isApplied(ctx, db, m.Version)
		if err != nil {
			return current, fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return current, fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		current = m.Version
	}
	return current, nil
}

func appliedVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func isApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
