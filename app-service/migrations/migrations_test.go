package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rellab/rellab-server/app-service/models"
	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func openSqlite(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	models.InitModelRegistrations(db)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestRunRenamesCompanyTitle(t *testing.T) {
	ctx := context.Background()
	db := openSqlite(t)

	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	legacy := &companyV1{Title: "Acme"}
	if _, err := db.NewInsert().Model(legacy).Exec(ctx); err != nil {
		t.Fatalf("insert legacy company: %v", err)
	}

	if err := renameCompaniesTitle(ctx, db); err != nil {
		t.Fatalf("rename: %v", err)
	}

	company := new(uploads.Company)
	if err := db.NewSelect().Model(company).Where("id = ?", legacy.Id).Scan(ctx); err != nil {
		t.Fatalf("select company: %v", err)
	}
	if company.Name != "Acme" {
		t.Fatalf("company name = %q, title was not carried over", company.Name)
	}

	if err := restoreCompaniesTitle(ctx, db); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := db.NewSelect().Model(legacy).WherePK().Scan(ctx); err != nil || legacy.Title != "Acme" {
		t.Fatalf("legacy company = %+v, %v", legacy, err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSqlite(t)

	for i := 0; i < 2; i++ {
		if err := Run(ctx, db); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	company := &uploads.Company{Name: "Acme"}
	if _, err := db.NewInsert().Model(company).Exec(ctx); err != nil {
		t.Fatalf("insert company after migrations: %v", err)
	}
	if _, err := db.NewInsert().Model(&uploads.Shop{Name: "Corner"}).Exec(ctx); err != nil {
		t.Fatalf("insert shop after migrations: %v", err)
	}
}
