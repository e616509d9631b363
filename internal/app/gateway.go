package app

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/storefront/internal/config"
	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/store"
)

func nopClose() error { return nil }

// OpenGateway returns the gateway for cfg.Storage.Backend together with a
// function that releases its connection.
func OpenGateway(ctx context.Context, cfg config.Config) (store.Gateway, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemoryGateway(), nopClose, nil

	case config.BackendFile:
		gw, err := store.NewFileGateway(cfg.Storage.File)
		if err != nil {
			return nil, nil, err
		}
		return gw, nopClose, nil

	case config.BackendRedis:
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisGateway(rdb, cfg.Storage.RedisPrefix), rdb.Close, nil

	case config.BackendPostgres:
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		gw, err := store.NewSQLGateway(ctx, conn, store.Postgres)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return gw, conn.Close, nil

	case config.BackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		gw, err := store.NewSQLGateway(ctx, conn, store.SQLite)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return gw, conn.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
