package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/dzx/pkg/dzx"
)

// ScanResult counts what Scan did with each file.
type ScanResult struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// IsContainerFile reports whether name has a .dzr or .dzs extension.
func IsContainerFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dzr", ".dzs":
		return true
	}
	return false
}

// Expand resolves paths into container files. Directories are walked for
// .dzr and .dzs files; plain files are taken as given.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == p || IsContainerFile(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Scan indexes every container under paths using up to workers goroutines.
// Files whose digest matches the stored one are skipped. A file that cannot
// be read or decoded is logged and counted as failed without stopping the
// scan; only context cancellation and database errors abort it.
func (c *Catalog) Scan(ctx context.Context, paths []string, workers int) (ScanResult, error) {
	files, err := Expand(paths)
	if err != nil {
		return ScanResult{}, err
	}
	if workers < 1 {
		workers = 1
	}

	var indexed, skipped, failed atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, path := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcome, err := c.indexFile(egCtx, path)
			switch {
			case err == nil:
			case errors.Is(err, errDatabase), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				c.log.Warn("index failed", "path", path, "err", err)
				outcome = "failed"
			}
			c.metrics.Indexed(outcome)
			switch outcome {
			case "indexed":
				indexed.Add(1)
			case "skipped":
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	err = eg.Wait()

	res := ScanResult{
		Indexed: int(indexed.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	c.log.Info("scan finished", "files", len(files), "indexed", res.Indexed, "skipped", res.Skipped, "failed", res.Failed)
	return res, err
}

var errDatabase = errors.New("catalog database error")

func (c *Catalog) indexFile(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	digest, size, err := HashFile(abs)
	if err != nil {
		return "", err
	}

	stored, err := c.File(ctx, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errDatabase, err)
	}
	if stored != nil && stored.Digest == digest {
		c.log.Debug("unchanged", "path", abs)
		return "skipped", nil
	}

	start := time.Now()
	cont, err := dzx.Open(abs)
	c.metrics.Decoded(start, err)
	if err != nil {
		return "", err
	}
	for _, ch := range cont.Chunks() {
		if !ch.Known() {
			c.metrics.UnknownChunk(string(ch.Type()))
			c.log.Warn("unknown chunk type", "path", abs, "type", ch.Type(), "count", ch.Len())
		}
	}

	if err := c.store(ctx, abs, digest, size, cont); err != nil {
		return "", fmt.Errorf("%w: %w", errDatabase, err)
	}
	c.log.Debug("indexed", "path", abs, "chunks", len(cont.Chunks()))
	return "indexed", nil
}

func (c *Catalog) store(ctx context.Context, path, digest string, size int64, cont *dzx.Container) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO files (path, digest, size, chunks, indexed_at)
	VALUES (?, ?, ?, ?, ?)`,
		path, digest, size, len(cont.Chunks()), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO records (path, chunk, layer, type, idx, name, params, x, y, z)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for ci, ch := range cont.Chunks() {
		var layer any
		if ch.Layer() != dzx.NoLayer {
			layer = int(ch.Layer())
		}
		for i, r := range ch.Records() {
			s := summarize(r)
			if _, err := stmt.ExecContext(ctx, path, ci, layer, string(ch.Type()), i, s.name, s.params, s.x, s.y, s.z); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// summary holds the searchable columns; nil means NULL.
type summary struct {
	name    any
	params  any
	x, y, z any
}

func summarize(r dzx.Record) summary {
	pos := func(x, y, z float32) (any, any, any) { return float64(x), float64(y), float64(z) }
	var s summary
	switch r := r.(type) {
	case *dzx.Treasure:
		s.name, s.params = r.Name, int64(r.Params)
		s.x, s.y, s.z = pos(r.X, r.Y, r.Z)
	case *dzx.ScaleableObject:
		s.name, s.params = r.Name, int64(r.Params)
		s.x, s.y, s.z = pos(r.X, r.Y, r.Z)
	case *dzx.Actor:
		s.name, s.params = r.Name, int64(r.Params)
		s.x, s.y, s.z = pos(r.X, r.Y, r.Z)
	case *dzx.PlayerSpawn:
		s.name = r.Name
		s.x, s.y, s.z = pos(r.X, r.Y, r.Z)
	case *dzx.Exit:
		s.name = r.DestStageName
	}
	return s
}
