// Package store is the local persistent cache: named collections of records
// keyed by a primary key field, with optional secondary indexes, kept in a
// SQLite database whose schema is versioned.
//
// A Store must be opened with Init before use; every operation on an
// unopened store fails with ErrNotOpen. Records are JSON objects, so values
// read back use JSON types (float64 for numbers, []any for lists).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DefaultName is the database name used by the site.
const DefaultName = "suar-cache"

var (
	// ErrNotOpen is returned by operations on a store that was never
	// opened or has been closed.
	ErrNotOpen = errors.New("store: not open")

	// ErrKeyExists is returned by Add when the primary key is taken.
	ErrKeyExists = errors.New("store: key already exists")

	// ErrUnknownCollection is returned for collections missing from the
	// schema.
	ErrUnknownCollection = errors.New("store: unknown collection")

	// ErrUnknownIndex is returned for indexes missing from a collection.
	ErrUnknownIndex = errors.New("store: unknown index")

	// ErrInvalidKey is returned when a record lacks a usable primary key.
	ErrInvalidKey = errors.New("store: invalid primary key")

	// ErrVersionDowngrade is returned when the database on disk was written
	// by a newer schema version than requested.
	ErrVersionDowngrade = errors.New("store: requested version is lower than stored version")

	// ErrUnknownVersion is returned when the requested schema version is
	// newer than any migration this build knows.
	ErrUnknownVersion = errors.New("store: requested version is not known")
)

// Record is one stored object.
type Record map[string]any

// Config identifies the database.
type Config struct {
	Dir     string // directory holding the database file (default "data")
	Name    string // database name (default DefaultName)
	Version int    // schema version to open at (default SchemaVersion)
}

func (c *Config) setDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Version == 0 {
		c.Version = SchemaVersion
	}
}

// Path returns the database file path.
func (c Config) Path() string {
	return filepath.Join(c.Dir, c.Name+".db")
}

// Store is a versioned, multi-collection record store.
type Store struct {
	cfg Config

	mu      sync.RWMutex
	db      *sql.DB
	catalog map[string]CollectionSchema
	version int
}

// New returns an unopened store for cfg.
func New(cfg Config) *Store {
	cfg.setDefaults()
	return &Store{cfg: cfg}
}

// Open returns a store for cfg that has already been initialised.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := New(cfg)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init opens the database, creating it if absent, and upgrades its schema to
// the configured version. Calling Init on an open store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("store: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", s.cfg.Path()+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return fmt.Errorf("store: open %s: %w", s.cfg.Path(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("store: open %s: %w", s.cfg.Path(), err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	version, err := runMigrations(ctx, db, s.cfg.Version, migrations)
	if err != nil {
		db.Close()
		return fmt.Errorf("store: %w", err)
	}
	catalog, err := loadCatalog(ctx, db)
	if err != nil {
		db.Close()
		return fmt.Errorf("store: load catalog: %w", err)
	}

	s.db = db
	s.catalog = catalog
	s.version = version
	return nil
}

// Close closes the database. The store can be opened again with Init.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.catalog = nil
	return err
}

// Version returns the applied schema version, or 0 when the store is closed.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0
	}
	return s.version
}

// Collections returns the schema of every collection, sorted by name.
func (s *Store) Collections() ([]CollectionSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	out := make([]CollectionSchema, 0, len(s.catalog))
	for _, c := range s.catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) collection(name string) (*sql.DB, CollectionSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, CollectionSchema{}, ErrNotOpen
	}
	c, ok := s.catalog[name]
	if !ok {
		return nil, CollectionSchema{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return s.db, c, nil
}

// Put inserts rec or replaces the record with the same primary key.
func (s *Store) Put(ctx context.Context, collection string, rec Record) error {
	return s.write(ctx, collection, rec, true)
}

// Add inserts rec and fails with ErrKeyExists when its primary key is taken.
func (s *Store) Add(ctx context.Context, collection string, rec Record) error {
	return s.write(ctx, collection, rec, false)
}

func (s *Store) write(ctx context.Context, collection string, rec Record, replace bool) error {
	db, c, err := s.collection(collection)
	if err != nil {
		return err
	}
	key, err := primaryKey(rec, c.KeyPath)
	if err != nil {
		return fmt.Errorf("store: %s: %w", collection, err)
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", collection, key, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := `INSERT INTO records (collection, key, value) VALUES (?, ?, ?)`
	if replace {
		stmt += ` ON CONFLICT(collection, key) DO UPDATE SET value = excluded.value`
	}
	if _, err := tx.ExecContext(ctx, stmt, collection, key, string(value)); err != nil {
		if !replace && isConstraint(err) {
			return fmt.Errorf("%w: %s/%s", ErrKeyExists, collection, key)
		}
		return fmt.Errorf("store: write %s/%s: %w", collection, key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM record_index WHERE collection = ? AND key = ?`, collection, key,
	); err != nil {
		return fmt.Errorf("store: reindex %s/%s: %w", collection, key, err)
	}
	for _, ix := range c.Indexes {
		values, err := indexValues(rec, ix)
		if err != nil {
			return err
		}
		if err := insertIndexEntries(tx, collection, ix.Name, key, values); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// isConstraint reports whether err is a SQLite constraint violation.
func isConstraint(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// Get returns the record stored under key. The boolean is false when there
// is none; a missing record is not an error.
func (s *Store) Get(ctx context.Context, collection, key string) (Record, bool, error) {
	db, _, err := s.collection(collection)
	if err != nil {
		return nil, false, err
	}
	var value string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM records WHERE collection = ? AND key = ?`, collection, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s/%s: %w", collection, key, err)
	}
	rec, err := decodeRecord(value)
	if err != nil {
		return nil, false, fmt.Errorf("store: decode %s/%s: %w", collection, key, err)
	}
	return rec, true, nil
}

// GetAll returns every record in collection, ordered by primary key.
func (s *Store) GetAll(ctx context.Context, collection string) ([]Record, error) {
	db, _, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT value FROM records WHERE collection = ? ORDER BY key`, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", collection, err)
	}
	return scanRecords(rows)
}

// Delete removes the record under key. Deleting a missing key succeeds.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	db, _, err := s.collection(collection)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND key = ?`, collection, key); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, key, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM record_index WHERE collection = ? AND key = ?`, collection, key); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, key, err)
	}
	return tx.Commit()
}

// Clear removes every record in collection. Other collections are untouched.
func (s *Store) Clear(ctx context.Context, collection string) error {
	db, _, err := s.collection(collection)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("store: clear %s: %w", collection, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM record_index WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("store: clear %s: %w", collection, err)
	}
	return tx.Commit()
}

// QueryByIndex returns the records whose indexed field equals value. For a
// multi-entry index a record matches when value is one of its list elements.
func (s *Store) QueryByIndex(ctx context.Context, collection, index string, value any) ([]Record, error) {
	db, c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Index(index); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, collection, index)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("store: encode index value: %w", err)
	}
	rows, err := db.QueryContext(ctx, `
		SELECT r.value FROM records r
		WHERE r.collection = ? AND r.key IN (
			SELECT key FROM record_index
			WHERE collection = ? AND index_name = ? AND value = ?
		)
		ORDER BY r.key`,
		collection, collection, index, string(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("store: query %s.%s: %w", collection, index, err)
	}
	return scanRecords(rows)
}

// Count returns the number of records in collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	db, _, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, collection,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count %s: %w", collection, err)
	}
	return n, nil
}

func loadCatalog(ctx context.Context, db *sql.DB) (map[string]CollectionSchema, error) {
	catalog := map[string]CollectionSchema{}
	rows, err := db.QueryContext(ctx, `SELECT name, key_path FROM collections`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c CollectionSchema
		if err := rows.Scan(&c.Name, &c.KeyPath); err != nil {
			rows.Close()
			return nil, err
		}
		catalog[c.Name] = c
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx,
		`SELECT collection, name, key_path, multi_entry FROM collection_indexes ORDER BY collection, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var coll string
		var ix IndexSchema
		var multi int
		if err := rows.Scan(&coll, &ix.Name, &ix.KeyPath, &multi); err != nil {
			return nil, err
		}
		ix.MultiEntry = multi == 1
		c := catalog[coll]
		c.Indexes = append(c.Indexes, ix)
		catalog[coll] = c
	}
	return catalog, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(value)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeRecord(value string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func primaryKey(rec Record, keyPath string) (string, error) {
	v, ok := rec[keyPath]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidKey, keyPath)
	}
	key, ok := v.(string)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", ErrInvalidKey, keyPath)
	}
	return key, nil
}

// indexValues returns the JSON-encoded values rec contributes to ix. Records
// without the indexed field contribute nothing.
func indexValues(rec Record, ix IndexSchema) ([]string, error) {
	v, ok := rec[ix.KeyPath]
	if !ok || v == nil {
		return nil, nil
	}
	var items []any
	rv := reflect.ValueOf(v)
	if ix.MultiEntry && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
	} else {
		items = []any{v}
	}
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("store: encode index %s: %w", ix.Name, err)
		}
		if _, dup := seen[string(b)]; dup {
			continue
		}
		seen[string(b)] = struct{}{}
		out = append(out, string(b))
	}
	return out, nil
}

func insertIndexEntries(tx *sql.Tx, collection, index, key string, values []string) error {
	for _, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO record_index (collection, index_name, value, key) VALUES (?, ?, ?, ?)`,
			collection, index, v, key,
		); err != nil {
			return fmt.Errorf("store: index %s/%s: %w", collection, key, err)
		}
	}
	return nil
}
