// Package testdb opens an in-memory SQLite database carrying the production
// schema for repository and controller tests.
package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rellab/rellab-server/app-service/migrations"
	"github.com/rellab/rellab-server/app-service/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func New(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	models.InitModelRegistrations(db)

	if err := migrations.Apply(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
