// Package sqlite implements the transactional lesson storage backend.
//
// The database is opened by name with a requested schema version tracked
// via PRAGMA user_version; an upgrade creates the lessons and metadata
// tables if they do not already exist. Records are stored verbatim as JSON
// text keyed by their extracted id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studyloop/lessonstore/internal/lesson"
	"github.com/studyloop/lessonstore/internal/storage"
)

// Schema version tracking:
// 0 - No schema (store does not exist yet)
// 1 - lessons and metadata tables
const schemaVersion = 1

// Backend provides durable storage for lessons on SQLite.
// Uses WAL mode for concurrent read access.
type Backend struct {
	db *sql.DB
}

// Provider opens a Backend at Path; it satisfies storage.Provider so the
// façade can attempt the open lazily on first use.
type Provider struct {
	Path string
}

// Open opens the database for the façade.
func (p *Provider) Open(ctx context.Context) (storage.Backend, error) {
	return Open(ctx, p.Path)
}

// Open creates or opens a SQLite database at the given path and brings its
// schema up to the current version. Idempotent - safe to call against an
// existing database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(ctx context.Context, path string) (*Backend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := upgradeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to upgrade schema: %w", err)
	}

	return &Backend{db: db}, nil
}

// Close closes the database connection. The façade never calls this - the
// connection is owned for the process lifetime - but tests and short-lived
// tools should.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Name implements storage.Backend.
func (b *Backend) Name() string {
	return "sqlite"
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// upgradeSchema creates the collections when the stored version is lower
// than requested. CREATE TABLE IF NOT EXISTS keeps each step a no-op when
// the collection already exists.
func upgradeSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if _, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS lessons (
				id     TEXT PRIMARY KEY,
				record TEXT NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("create lessons table: %w", err)
		}
		if _, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS metadata (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("create metadata table: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// PutLesson upserts a record by id.
func (b *Backend) PutLesson(ctx context.Context, l lesson.Lesson) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO lessons (id, record) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record
	`, l.ID, string(l.Raw))
	if err != nil {
		return fmt.Errorf("put lesson: %w", err)
	}
	return nil
}

// GetLesson returns the record with the given id, or storage.ErrNotFound.
func (b *Backend) GetLesson(ctx context.Context, id string) (lesson.Lesson, error) {
	var record string
	err := b.db.QueryRowContext(ctx,
		"SELECT record FROM lessons WHERE id = ?", id,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return lesson.Lesson{}, storage.ErrNotFound
	}
	if err != nil {
		return lesson.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}
	return lesson.Lesson{ID: id, Raw: json.RawMessage(record)}, nil
}

// GetAllLessons returns every record, ordered by id for deterministic
// results. Returns an empty slice (not nil) when the table is empty.
func (b *Backend) GetAllLessons(ctx context.Context) ([]lesson.Lesson, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT id, record FROM lessons ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []lesson.Lesson{}
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson.Lesson{ID: id, Raw: json.RawMessage(record)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// DeleteLesson removes a record by id. Deleting an absent id is a no-op.
func (b *Backend) DeleteLesson(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// ReplaceAllLessons clears the table and reinserts the given records
// sequentially. Deliberately not wrapped in a transaction: a concurrent
// reader may observe an empty or partial collection mid-replace.
func (b *Backend) ReplaceAllLessons(ctx context.Context, lessons []lesson.Lesson) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM lessons"); err != nil {
		return fmt.Errorf("clear lessons: %w", err)
	}
	for _, l := range lessons {
		if err := b.PutLesson(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// PutMetadata upserts a metadata value by key.
func (b *Backend) PutMetadata(ctx context.Context, key string, value json.RawMessage) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the metadata value for key, or storage.ErrNotFound.
func (b *Backend) GetMetadata(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := b.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return json.RawMessage(value), nil
}
