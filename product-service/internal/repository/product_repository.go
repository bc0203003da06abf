package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

// Schema creates the products table.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	stock       INTEGER NOT NULL CHECK (stock >= 0),
	sku         TEXT UNIQUE,
	category    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
`

const productColumns = `id, name, description, price, stock, sku, category, created_at, updated_at`

// ProductWriteRepository handles all state-mutating operations for products.
// It operates exclusively against the PostgreSQL write store.
type ProductWriteRepository struct {
	db *sql.DB
}

func NewProductWriteRepository(db *sql.DB) *ProductWriteRepository {
	return &ProductWriteRepository{db: db}
}

func (r *ProductWriteRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock,
		nullString(p.SKU), p.Category, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("Product with this SKU already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductWriteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *ProductWriteRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, sku = $6, category = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, nullString(p.SKU), p.Category, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("Product with this SKU already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectRow(result, p.ID)
}

func (r *ProductWriteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectRow(result, id)
}

// ReduceStock decrements stock in a single conditional UPDATE so concurrent
// orders cannot oversell.
func (r *ProductWriteRepository) ReduceStock(ctx context.Context, id string, quantity int, at time.Time) (*models.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, quantity, at))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to reduce stock: %w", err)
	}

	// Nothing matched: either the product is gone or stock ran short.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperr.ConflictCode("INSUFFICIENT_STOCK", "Insufficient stock")
}

func (r *ProductWriteRepository) List(ctx context.Context, skip, take int) ([]*models.Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, skip, take)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, take)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var p models.Product
	var sku sql.NullString
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &sku, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.SKU = sku.String
	return &p, nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound("Product", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
