package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/samcharles93/dzx/pkg/dzx"
)

// Query selects catalog records. Zero fields match everything.
type Query struct {
	Type dzx.Type
	// Name is a SQLite GLOB pattern, for example "Salv*".
	Name string
	// Layer restricts to one layer; a pointer to dzx.NoLayer matches only
	// layerless chunks.
	Layer *dzx.Layer
	Limit int
}

// Entry is one indexed record.
type Entry struct {
	Path   string      `json:"path"`
	Chunk  int         `json:"chunk"`
	Layer  dzx.Layer   `json:"layer"`
	Type   dzx.Type    `json:"type"`
	Index  int         `json:"index"`
	Name   string      `json:"name,omitempty"`
	Params *uint32     `json:"params,omitempty"`
	Pos    *[3]float64 `json:"pos,omitempty"`
}

// Find returns records matching q ordered by path, chunk and index.
func (c *Catalog) Find(ctx context.Context, q Query) ([]Entry, error) {
	var where []string
	var args []any
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Name != "" {
		where = append(where, "name GLOB ?")
		args = append(args, q.Name)
	}
	if q.Layer != nil {
		if *q.Layer == dzx.NoLayer {
			where = append(where, "layer IS NULL")
		} else {
			where = append(where, "layer = ?")
			args = append(args, int(*q.Layer))
		}
	}

	query := `SELECT path, chunk, layer, type, idx, name, params, x, y, z FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY path, chunk, idx"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			typ     string
			layer   sql.NullInt64
			name    sql.NullString
			params  sql.NullInt64
			x, y, z sql.NullFloat64
		)
		if err := rows.Scan(&e.Path, &e.Chunk, &layer, &typ, &e.Index, &name, &params, &x, &y, &z); err != nil {
			return nil, err
		}
		e.Type = dzx.Type(typ)
		e.Layer = dzx.NoLayer
		if layer.Valid {
			e.Layer = dzx.Layer(layer.Int64)
		}
		e.Name = name.String
		if params.Valid {
			p := uint32(params.Int64)
			e.Params = &p
		}
		if x.Valid && y.Valid && z.Valid {
			e.Pos = &[3]float64{x.Float64, y.Float64, z.Float64}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
