// Package database is the Database collaborator (spec.md §4.9): it
// persists generated questions, links them into exams, and serves
// subtopic lookups. Grounded on
// original_source/agents/database_agent.py (DatabaseAgent's asyncpg pool
// and its insert_questions/create_exam/get_subtopics queries) and
// basegraphhq-basegraph/relay/core/db/db.go's pgxpool.Pool wrapper.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the connection pool. Mirrors db.Config's
// DSN/MaxConns/MinConns shape, with database_agent.py's asyncpg defaults
// (min_size=2, max_size=10) as the fallback.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// Pool wraps a pgxpool.Pool for the Database collaborator.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool opens and pings a connection pool.
func NewPool(ctx context.Context, cfg Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: parsing config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("database: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: pinging: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Close releases the underlying pool.
func (p *Pool) Close() {
	p.pool.Close()
}
