package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/database"
	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// ProductRepository defines data access for product listings.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string) ([]*models.Product, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error)
}

type productRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *database.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO products (supplier_id, name, description, category, base_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = tx.QueryRow(ctx, query,
		product.SupplierID, product.Name, product.Description, product.Category, product.BasePrice,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	for i, filename := range product.Images {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_images (product_id, filename, position) VALUES ($1, $2, $3)`,
			product.ID, filename, i)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT p.id, p.supplier_id, p.name, p.description, p.category, p.base_price, p.created_at, c.name
		FROM products p
		JOIN companies c ON c.id = p.supplier_id
		WHERE p.id = $1`

	var p models.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.Name, &p.Description, &p.Category, &p.BasePrice, &p.CreatedAt, &p.SupplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	images, err := r.loadImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return &p, nil
}

func (r *productRepository) loadImages(ctx context.Context, productID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT filename FROM product_images WHERE product_id = $1 ORDER BY position`, productID)
	if err != nil {
		return nil, fmt.Errorf("load product images: %w", err)
	}
	defer rows.Close()

	images := make([]string, 0)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, f)
	}
	return images, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, base_price = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Category, product.BasePrice)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a product. Quote requests and their chat messages
// cascade at the schema level.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, category string) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.supplier_id, p.name, p.description, p.category, p.base_price, p.created_at, c.name
		FROM products p
		JOIN companies c ON c.id = p.supplier_id
		WHERE ($1 = '' OR p.category = $1)
		ORDER BY p.created_at DESC`

	return r.queryProducts(ctx, query, category)
}

func (r *productRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.supplier_id, p.name, p.description, p.category, p.base_price, p.created_at, c.name
		FROM products p
		JOIN companies c ON c.id = p.supplier_id
		WHERE p.supplier_id = $1
		ORDER BY p.created_at DESC`

	return r.queryProducts(ctx, query, supplierID)
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.SupplierID, &p.Name, &p.Description, &p.Category,
			&p.BasePrice, &p.CreatedAt, &p.SupplierName)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
