package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

const productsTable = "catalog.products"

// uniqueViolation is the SQLSTATE PostgreSQL reports for a unique
// constraint failure.
const uniqueViolation = "23505"

type ProductRepository struct {
	db  *sql.DB
	log logger.Logger
}

func NewProductRepository(db *sql.DB, log logger.Logger) *ProductRepository {
	log.Log("ProductRepository successfully created.")
	return &ProductRepository{db: db, log: log}
}

// selectList is the column list every read returns, matching scanProduct.
func selectList() string {
	return "id, " + strings.Join(models.Columns(), ", ") + ", created_at, updated_at"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	fields := p.Fields()
	dest := make([]any, 0, len(fields)+3)
	dest = append(dest, &p.ID)
	for _, f := range fields {
		dest = append(dest, f.Ptr)
	}
	dest = append(dest, &p.CreatedAt, &p.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByEAN(ctx context.Context, ean string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE ean = $1`, selectList(), productsTable)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, ean))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by EAN: %w", err)
	}
	return p, nil
}

// FindEqual returns every product whose column equals value exactly.
// column must be one of the repository's own column names.
func (r *ProductRepository) FindEqual(ctx context.Context, column, value string) ([]models.Product, error) {
	if !isColumn(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY id`, selectList(), productsTable, column)
	return r.queryProducts(ctx, query, value)
}

// SearchLike returns every product whose column contains term, ignoring
// case. LIKE wildcards inside term match literally.
func (r *ProductRepository) SearchLike(ctx context.Context, column, term string) ([]models.Product, error) {
	if !isColumn(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ILIKE $1 ORDER BY id`, selectList(), productsTable, column)
	return r.queryProducts(ctx, query, "%"+escapeLike(term)+"%")
}

func (r *ProductRepository) ListPage(ctx context.Context, offset, limit int) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2`, selectList(), productsTable)
	return r.queryProducts(ctx, query, limit, offset)
}

// ListAfter pages by primary key so that consecutive windows never overlap
// even while rows are being inserted.
func (r *ProductRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id > $1 ORDER BY id LIMIT $2`, selectList(), productsTable)
	return r.queryProducts(ctx, query, afterID, limit)
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+productsTable).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) IsEmpty(ctx context.Context) (bool, error) {
	r.log.Log("Checking if products table is empty")
	var empty bool
	err := r.db.QueryRowContext(ctx, `SELECT NOT EXISTS (SELECT 1 FROM `+productsTable+`)`).Scan(&empty)
	if err != nil {
		return false, fmt.Errorf("check products table: %w", err)
	}
	return empty, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	fields := product.Fields()
	cols := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = f.Value()
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		productsTable, strings.Join(cols, ", "), strings.Join(placeholders, ", "), selectList())

	created, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return created, nil
}

// Update applies changes to the product with the given id and returns the
// stored row. updated_at is always refreshed.
func (r *ProductRepository) Update(ctx context.Context, id int64, changes []models.Field) (*models.Product, error) {
	if len(changes) == 0 {
		return nil, errors.New("no fields to update")
	}
	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for i, f := range changes {
		if !isColumn(f.Column) {
			return nil, fmt.Errorf("unknown column %q", f.Column)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Column, i+1))
		args = append(args, f.Value())
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		productsTable, strings.Join(sets, ", "), len(args), selectList())

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, models.ErrNotFound
		case isUniqueViolation(err):
			return nil, models.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+productsTable+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isColumn(column string) bool {
	for _, c := range models.Columns() {
		if c == column {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
