package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gamelounge/internal/models"
)

// ErrProductNotFound indicates a missing product row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository handles CRUD for the extras catalog.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository returns repository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const query = `
		INSERT INTO products (name, price, is_active, created_at, updated_at)
		VALUES ($1, $2, true, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, product.Name, int64(product.Price)).
		Scan(&product.ID, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
}

// Update changes name, price and active flag.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	const query = `
		UPDATE products
		SET name = $2, price = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, product.ID, product.Name, int64(product.Price), product.IsActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Deactivate soft-deletes a product so historical charges keep their reference.
func (r *ProductRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ListActive returns sellable products.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, name, price, is_active, created_at, updated_at
		FROM products
		WHERE is_active = true
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByIDs returns active products keyed by id. IDs with no active row
// are simply absent so the extras pricing can drop their lines.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	catalog := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, price, is_active, created_at, updated_at
		FROM products
		WHERE is_active = true AND id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		catalog[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var price int64
	if err := row.Scan(&p.ID, &p.Name, &price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Price = models.Money(price)
	return &p, nil
}
