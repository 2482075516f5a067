package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. LastPrice inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, category, brand, unit_measure, last_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.Brand, product.UnitMeasure,
		product.LastPrice, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, category, brand, unit_measure, last_price, created_at, updated_at
		FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByName obtiene un producto por su nombre (llave natural de sincronización).
func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	query := `
		SELECT id, name, category, brand, unit_measure, last_price, created_at, updated_at
		FROM products WHERE name = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, name))
}

// Update actualiza categoría, marca y unidad de medida. No toca LastPrice
// (se maneja vía el flujo de compra) ni Name (llave natural).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET category = $2, brand = $3, unit_measure = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Category, product.Brand, product.UnitMeasure, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateLastPrice actualiza solo el precio de referencia (usado por el flujo de compra).
func (r *ProductRepo) UpdateLastPrice(productID string, price decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET last_price = $2, updated_at = now() WHERE id = $1`,
		productID, price,
	)
	if err != nil {
		return fmt.Errorf("update product last price: %w", err)
	}
	return nil
}

// ListCatalog lista el catálogo completo con la cantidad pendiente consolidada
// por producto (cero si no hay fila Pendiente), ordenado por categoría y nombre.
func (r *ProductRepo) ListCatalog() ([]repository.CatalogRow, error) {
	query := `
		SELECT p.id, p.name, p.category, p.brand, p.unit_measure, p.last_price,
		       p.created_at, p.updated_at,
		       COALESCE(SUM(s.quantity_requested), 0) AS pending_quantity
		FROM products p
		LEFT JOIN shopping_items s
			ON s.product_id = p.id AND s.status = $1
		GROUP BY p.id
		ORDER BY p.category, p.name`
	rows, err := r.q.Query(context.Background(), query, string(lifecycle.StatusPendiente))
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var list []repository.CatalogRow
	for rows.Next() {
		var row repository.CatalogRow
		if err := rows.Scan(
			&row.Product.ID, &row.Product.Name, &row.Product.Category, &row.Product.Brand,
			&row.Product.UnitMeasure, &row.Product.LastPrice,
			&row.Product.CreatedAt, &row.Product.UpdatedAt,
			&row.PendingQuantity,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Brand, &p.UnitMeasure, &p.LastPrice,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
