// Package catalog keeps a sqlite index of published snapshots.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed sql/*
var f embed.FS

// Entry is one published snapshot.
type Entry struct {
	RunID         string    `json:"run_id"`
	EpochID       string    `json:"epoch_id"`
	Timestamp     string    `json:"timestamp"`
	Path          string    `json:"path"`
	SHA256        string    `json:"sha256"`
	CIS           float64   `json:"cis"`
	Models        int       `json:"models"`
	EngineVersion string    `json:"engine_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Catalog is a sqlite-backed snapshot index.
type Catalog struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open opens or creates the catalog at path and ensures its schema.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path not specified")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ddl, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read catalog schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema in %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

// Record inserts e. A zero CreatedAt is set to now.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx, `INSERT INTO snapshots
		(run_id, epoch_id, timestamp, path, sha256, cis, models, engine_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.EpochID, e.Timestamp, e.Path, e.SHA256, e.CIS, e.Models, e.EngineVersion, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record snapshot %s: %w", e.Path, err)
	}
	return nil
}

const selectCols = `run_id, epoch_id, timestamp, path, sha256, cis, models, engine_version, created_at`

// Latest returns the most recently recorded entry.
func (c *Catalog) Latest(ctx context.Context) (Entry, error) {
	entries, err := c.query(ctx, `SELECT `+selectCols+` FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return entries[0], nil
}

// ByEpoch returns the entries for epochID, newest first.
func (c *Catalog) ByEpoch(ctx context.Context, epochID string) ([]Entry, error) {
	return c.query(ctx, `SELECT `+selectCols+` FROM snapshots WHERE epoch_id = ? ORDER BY created_at DESC, rowid DESC`, epochID)
}

// List returns up to limit entries, newest first.
func (c *Catalog) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	return c.query(ctx, `SELECT `+selectCols+` FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

func (c *Catalog) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.RunID, &e.EpochID, &e.Timestamp, &e.Path, &e.SHA256, &e.CIS, &e.Models, &e.EngineVersion, &created); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return out, nil
}

// Close releases the database.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}
