// Package recordsource loads grid records from Postgres queries or JSON files.
package recordsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/gnemet/gridengine"
)

// Loader reads whole result sets into grid records.
type Loader struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to Postgres and tunes the underlying pool.
func Open(connStr string, maxConns int, idleTimeout, absTimeout time.Duration) (*Loader, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(absTimeout)
	db.SetConnMaxIdleTime(idleTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

// New wraps an open database.
func New(db *sql.DB) *Loader {
	return &Loader{db: db, logger: slog.Default()}
}

// WithLogger replaces the logger.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	l.logger = logger
	return l
}

// DB exposes the pool, e.g. for a state store sharing the connection.
func (l *Loader) DB() *sql.DB { return l.db }

// Close closes the pool.
func (l *Loader) Close() error {
	return l.db.Close()
}

// Load runs the query and returns every row as a record. JSON columns are decoded so
// their fields can be addressed by dot paths.
func (l *Loader) Load(ctx context.Context, query string, args ...interface{}) ([]gridengine.Record, error) {
	start := time.Now()
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("records loaded", "rows", len(records), "took", time.Since(start))
	return records, nil
}

// Source binds a query to the loader as a grid record source.
func (l *Loader) Source(query string, args ...interface{}) gridengine.Source {
	return &querySource{loader: l, query: query, args: args}
}

type querySource struct {
	loader *Loader
	query  string
	args   []interface{}
}

func (s *querySource) Records(ctx context.Context) ([]gridengine.Record, error) {
	return s.loader.Load(ctx, s.query, s.args...)
}

func scanRows(rows *sql.Rows) ([]gridengine.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	jsonCols := make([]bool, len(cols))
	numericCols := make([]bool, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			switch strings.ToUpper(t.DatabaseTypeName()) {
			case "JSON", "JSONB":
				jsonCols[i] = true
			case "NUMERIC", "DECIMAL":
				numericCols[i] = true
			}
		}
	}

	results := []gridengine.Record{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		pointers := make([]interface{}, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(gridengine.Record, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			if s, ok := val.(string); ok && jsonCols[i] {
				var doc interface{}
				if err := json.Unmarshal([]byte(s), &doc); err != nil {
					return nil, fmt.Errorf("decode json column %s: %w", col, err)
				}
				val = doc
			}
			// lib/pq returns NUMERIC as text; values beyond float64 range stay strings
			if s, ok := val.(string); ok && numericCols[i] {
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					val = f
				}
			}
			row[col] = val
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
