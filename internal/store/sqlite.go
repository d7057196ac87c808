package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteBackend keeps every slot as one row of the slots table.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteBackend(db *sql.DB) (*SQLiteBackend, error) {
	if db == nil {
		return nil, errors.New("store: nil db")
	}
	if err := MigrateUp(db); err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db, now: time.Now}, nil
}

func OpenSQLite(path string) (*SQLiteBackend, error) {
	// Other nova processes share the file; wait for their writes instead of
	// failing with "database is locked".
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; keeps "database is locked" out of concurrent saves.
	db.SetMaxOpenConns(1)
	backend, err := NewSQLiteBackend(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return payload, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, slot string, payload []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO slots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, payload, mustTime(b.now()),
	)
	return err
}

// UpdatedAt reports when a slot was last written.
func (b *SQLiteBackend) UpdatedAt(ctx context.Context, slot string) (time.Time, error) {
	var raw string
	err := b.db.QueryRowContext(ctx, `SELECT updated_at FROM slots WHERE name = ?`, slot).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrSlotEmpty
		}
		return time.Time{}, err
	}
	return time.Parse(sqliteTimeLayout, raw)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}
