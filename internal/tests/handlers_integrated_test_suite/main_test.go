package handlers_integrated_test_suite

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/store"
)

// TestMain runs the suite against Postgres when DATABASE_URL is set and
// against a throwaway SQLite file otherwise.
func TestMain(m *testing.M) {
	ctx := context.Background()
	dir, err := os.MkdirTemp("", "storefront-it")
	if err != nil {
		log.Fatal(err)
	}

	dialect := store.SQLite
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		database, err = db.Connect(ctx, dbURL)
		dialect = store.Postgres
	} else {
		database, err = db.OpenSQLite(ctx, filepath.Join(dir, "storefront.db"))
	}
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}

	gateway, err = store.NewSQLGateway(ctx, database, dialect)
	if err != nil {
		log.Fatal("❌ Could not prepare documents table:", err)
	}

	code := m.Run()
	database.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}
