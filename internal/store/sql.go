package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Dialect carries the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	schema string
	get    string
	upsert string
}

var (
	Postgres = Dialect{
		Name: "postgres",
		schema: `CREATE TABLE IF NOT EXISTS documents (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		get: `SELECT value FROM documents WHERE key = $1`,
		upsert: `INSERT INTO documents (key, value, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}

	SQLite = Dialect{
		Name: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS documents (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		get: `SELECT value FROM documents WHERE key = ?`,
		upsert: `INSERT INTO documents (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}
)

const queryTimeout = 3 * time.Second

// SQLGateway keeps documents in a single key/value table.
type SQLGateway struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLGateway creates the documents table if needed.
func NewSQLGateway(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLGateway, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		return nil, persistenceErr("migrate", "documents", err)
	}
	return &SQLGateway{db: db, dialect: dialect}, nil
}

func (g *SQLGateway) Read(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var value string
	err := g.db.QueryRowContext(ctx, g.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, persistenceErr("read", key, err)
	}
	return []byte(value), nil
}

func (g *SQLGateway) Write(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := g.db.ExecContext(ctx, g.dialect.upsert, key, string(value)); err != nil {
		return persistenceErr("write", key, err)
	}
	return nil
}
