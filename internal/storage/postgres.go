package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// initializedFlag is the reserved document name holding the bootstrap marker.
// A leading underscore keeps it out of the entity collection namespace.
const initializedFlag = "_initialized"

// Postgres stores each collection as one jsonb row in the collections table
// (see migrations/001_collections.sql).
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the collections table if it does not exist yet, so a
// fresh database works without running the migration tool first.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			name       text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure collections table: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, collection string, v any) error {
	var data []byte
	err := p.pool.QueryRow(ctx,
		"SELECT data FROM collections WHERE name = $1", collection,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load collection %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO collections (name, data)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, collection, data)
	if err != nil {
		return fmt.Errorf("failed to save collection %s: %w", collection, err)
	}
	return nil
}

func (p *Postgres) Initialized(ctx context.Context) (bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		"SELECT data FROM collections WHERE name = $1", initializedFlag,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read initialized flag: %w", err)
	}
	return true, nil
}

func (p *Postgres) MarkInitialized(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO collections (name, data)
		VALUES ($1, 'true'::jsonb)
		ON CONFLICT (name) DO NOTHING
	`, initializedFlag)
	if err != nil {
		return fmt.Errorf("failed to mark initialized: %w", err)
	}
	return nil
}
