package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"pharmacatalog_api/internal/catalog/models"
)

const stagingTable = "products_staging"

// UpsertBatch writes products into the catalog, merging on EAN. Records
// without a validity date are dropped first; when several records share an
// EAN the last one wins. It returns the number of rows written.
func (r *ProductRepository) UpsertBatch(ctx context.Context, products []models.Product) (int, error) {
	valid := r.withValidityDate(products)
	valid = dedupeByEAN(valid)
	if len(valid) == 0 {
		r.log.Log("No valid products to upsert")
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TEMP TABLE %s ON COMMIT DROP AS SELECT * FROM %s WHERE 1=0`, stagingTable, productsTable))
	if err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	cols := append(models.Columns(), "created_at", "updated_at")
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(stagingTable, cols...))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}

	now := time.Now().UTC()
	for i := range valid {
		p := &valid[i]
		args := make([]any, 0, len(cols))
		for _, f := range p.Fields() {
			args = append(args, f.Value())
		}
		args = append(args, stampOrNow(p.CreatedAt, now), stampOrNow(p.UpdatedAt, now))

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copy product %s: %w", p.EAN, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close copy: %w", err)
	}

	res, err := tx.ExecContext(ctx, upsertQuery(cols))
	if err != nil {
		return 0, fmt.Errorf("merge staged products: %w", err)
	}
	written, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	r.log.Log("Upserted %d products", written)
	return int(written), nil
}

func upsertQuery(cols []string) string {
	updates := make([]string, 0, len(cols))
	for _, c := range cols {
		// created_at keeps its original value on conflict
		if c == "ean" || c == "created_at" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	list := strings.Join(cols, ", ")
	return fmt.Sprintf(`INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (ean) DO UPDATE SET %s`,
		productsTable, list, list, stagingTable, strings.Join(updates, ", "))
}

func (r *ProductRepository) withValidityDate(products []models.Product) []models.Product {
	valid := make([]models.Product, 0, len(products))
	dropped := 0
	for _, p := range products {
		if p.DataVigencia == nil {
			r.log.Warn("Skipping product %s: invalid DATA_VIGENCIA", p.EAN)
			dropped++
			continue
		}
		valid = append(valid, p)
	}
	if dropped > 0 {
		r.log.Log("Filtered out %d products with invalid dates", dropped)
	}
	return valid
}

// dedupeByEAN keeps the last occurrence of every EAN, preserving the order
// in which those survivors appeared.
func dedupeByEAN(products []models.Product) []models.Product {
	last := make(map[string]int, len(products))
	for i, p := range products {
		last[p.EAN] = i
	}
	out := make([]models.Product, 0, len(last))
	for i, p := range products {
		if last[p.EAN] == i {
			out = append(out, p)
		}
	}
	return out
}

func stampOrNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
