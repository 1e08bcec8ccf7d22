package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/gnemet/gridengine"
)

// DefaultTable holds persisted state when no table is configured.
const DefaultTable = "datagrid_state"

// Postgres keeps state in a jsonb column keyed by session and grid path.
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres creates a store over table (DefaultTable when empty).
func NewPostgres(db *sql.DB, table string) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: pq.QuoteIdentifier(table)}
}

// Init creates the state table if needed.
func (p *Postgres) Init(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	state JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, p.table)
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create state table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (*gridengine.State, error) {
	var raw []byte
	query := fmt.Sprintf("SELECT state FROM %s WHERE key = $1", p.table)
	err := p.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}

	var st gridengine.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", key, err)
	}
	return &st, nil
}

func (p *Postgres) Set(ctx context.Context, key string, st gridengine.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (key, state) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`, p.table)
	if _, err := p.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}
