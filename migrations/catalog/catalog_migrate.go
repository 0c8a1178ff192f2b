package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/dbconnect/migration"
)

// All returns the catalog migrations in the order they must run.
func All() []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&CreateCatalogSchema{},
		&CreateProductsTable{},
		&CreateProductsIndexes{},
	}
}

type CreateCatalogSchema struct{}

func (m *CreateCatalogSchema) Name() string { return "catalog.schema" }

func (m *CreateCatalogSchema) UpMigration(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS catalog;`); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Name() string { return "catalog.products" }

func (m *CreateProductsTable) UpMigration(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, productsTableDDL()); err != nil {
		return fmt.Errorf("failed to create catalog.products table: %w", err)
	}
	return nil
}

// productsTableDDL derives the column list from the product model so the
// table and the repository never drift apart.
func productsTableDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS catalog.products (\n\tid BIGSERIAL PRIMARY KEY")

	var p models.Product
	for _, f := range p.Fields() {
		b.WriteString(",\n\t")
		b.WriteString(f.Column)
		switch f.Ptr.(type) {
		case *string:
			b.WriteString(" TEXT NOT NULL DEFAULT ''")
		case **time.Time:
			b.WriteString(" TIMESTAMPTZ")
		default:
			b.WriteString(" NUMERIC(14,4) NOT NULL DEFAULT 0")
		}
	}
	b.WriteString(",\n\tcreated_at TIMESTAMPTZ NOT NULL DEFAULT now()")
	b.WriteString(",\n\tupdated_at TIMESTAMPTZ NOT NULL DEFAULT now()")
	b.WriteString(",\n\tCONSTRAINT products_ean_key UNIQUE (ean)\n);")
	return b.String()
}

type CreateProductsIndexes struct{}

func (m *CreateProductsIndexes) Name() string { return "catalog.products_indexes" }

func (m *CreateProductsIndexes) UpMigration(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE INDEX IF NOT EXISTS products_registro_ms_idx ON catalog.products (registro_ms);
		CREATE INDEX IF NOT EXISTS products_id_status_idx ON catalog.products (id_status);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create catalog.products indexes: %w", err)
	}
	return nil
}
