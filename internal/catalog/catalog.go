// Package catalog indexes DZR/DZS files on disk into a SQLite database so
// records can be searched across many rooms and stages.
package catalog

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"lukechampine.com/blake3"

	"github.com/samcharles93/dzx/internal/logger"
	"github.com/samcharles93/dzx/internal/metrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path       TEXT PRIMARY KEY,
	digest     TEXT NOT NULL,
	size       INTEGER NOT NULL,
	chunks     INTEGER NOT NULL,
	indexed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	path   TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	chunk  INTEGER NOT NULL,
	layer  INTEGER,
	type   TEXT NOT NULL,
	idx    INTEGER NOT NULL,
	name   TEXT,
	params INTEGER,
	x      REAL,
	y      REAL,
	z      REAL
);
CREATE INDEX IF NOT EXISTS records_type_name ON records(type, name);
`

// Catalog is a SQLite-backed record index.
type Catalog struct {
	db      *sql.DB
	log     logger.Logger
	metrics *metrics.Metrics
}

// Options configures Open. Zero values are usable.
type Options struct {
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Open opens or creates the catalog database at path.
func Open(ctx context.Context, path string, opts Options) (*Catalog, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// Writers are serialized by SQLite anyway; one connection keeps
	// transactions from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	return &Catalog{db: db, log: log.With("component", "catalog"), metrics: opts.Metrics}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

// FileInfo is one row of the files table.
type FileInfo struct {
	Path      string    `json:"path"`
	Digest    string    `json:"digest"`
	Size      int64     `json:"size"`
	Chunks    int       `json:"chunks"`
	IndexedAt time.Time `json:"indexed_at"`
}

// File returns the stored entry for path, or nil when it is not indexed.
func (c *Catalog) File(ctx context.Context, path string) (*FileInfo, error) {
	row := c.db.QueryRowContext(ctx, `
	SELECT path, digest, size, chunks, indexed_at
	FROM files
	WHERE path = ?`, path)

	var fi FileInfo
	var indexedAt string
	err := row.Scan(&fi.Path, &fi.Digest, &fi.Size, &fi.Chunks, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fi.IndexedAt, err = time.Parse(time.RFC3339Nano, indexedAt); err != nil {
		return nil, fmt.Errorf("file %s: bad indexed_at %q: %w", path, indexedAt, err)
	}
	return &fi, nil
}

// Remove drops path and its records from the catalog.
func (c *Catalog) Remove(ctx context.Context, path string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return err
}

// Digest is the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile streams path through BLAKE3-256 and returns the hex digest and the
// number of bytes read.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New(32, nil)
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
