package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

var _ repository.ShoppingItemRepository = (*ShoppingItemRepo)(nil)

// ShoppingItemRepo implementación del libro de solicitudes sobre PostgreSQL
// (usable con pool o tx). Las transiciones son un solo UPDATE condicionado al
// estado actual: la verificación de precondición y la escritura son atómicas,
// y dos actores no pueden sacar la misma fila del mismo estado dos veces.
type ShoppingItemRepo struct {
	q Querier
}

// NewShoppingItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShoppingItemRepository(q Querier) *ShoppingItemRepo {
	return &ShoppingItemRepo{q: q}
}

const itemColumns = `id, product_id, requester_id, quantity_requested, quantity_approved, status, price_real, shopping_date, created_at`

// GetByID obtiene una línea por ID.
func (r *ShoppingItemRepo) GetByID(id string) (*entity.ShoppingItem, error) {
	query := `SELECT ` + itemColumns + ` FROM shopping_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetPendingByProduct obtiene la única fila Pendiente del producto, si existe.
func (r *ShoppingItemRepo) GetPendingByProduct(productID string) (*entity.ShoppingItem, error) {
	query := `SELECT ` + itemColumns + ` FROM shopping_items WHERE product_id = $1 AND status = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, string(lifecycle.StatusPendiente)))
}

// InsertPending inserta una nueva fila Pendiente. El índice único parcial
// rechaza una segunda fila pendiente para el mismo producto (ErrDuplicate).
func (r *ShoppingItemRepo) InsertPending(item *entity.ShoppingItem) error {
	query := `
		INSERT INTO shopping_items (id, product_id, requester_id, quantity_requested, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ProductID, item.RequesterID, item.QuantityRequested,
		string(lifecycle.StatusPendiente), item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pending item: %w", err)
	}
	return nil
}

// UpdatePendingQuantity sobrescribe cantidad y atribución del solicitante
// mientras la fila siga Pendiente (la última escritura gana).
func (r *ShoppingItemRepo) UpdatePendingQuantity(itemID, requesterID string, quantity decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE shopping_items SET quantity_requested = $3, requester_id = $2
		 WHERE id = $1 AND status = $4`,
		itemID, requesterID, quantity, string(lifecycle.StatusPendiente),
	)
	if err != nil {
		return false, fmt.Errorf("update pending quantity: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeletePending elimina la fila solo si sigue Pendiente (cantidad puesta a cero).
func (r *ShoppingItemRepo) DeletePending(itemID string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM shopping_items WHERE id = $1 AND status = $2`,
		itemID, string(lifecycle.StatusPendiente),
	)
	if err != nil {
		return false, fmt.Errorf("delete pending item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Approve transiciona Pendiente → Aprobado registrando la cantidad final.
func (r *ShoppingItemRepo) Approve(itemID string, quantity decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE shopping_items SET status = $3, quantity_approved = $2
		 WHERE id = $1 AND status = $4`,
		itemID, quantity, string(lifecycle.StatusAprobado), string(lifecycle.StatusPendiente),
	)
	if err != nil {
		return false, fmt.Errorf("approve item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Reject transiciona Pendiente → Rechazado.
func (r *ShoppingItemRepo) Reject(itemID string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE shopping_items SET status = $2
		 WHERE id = $1 AND status = $3`,
		itemID, string(lifecycle.StatusRechazado), string(lifecycle.StatusPendiente),
	)
	if err != nil {
		return false, fmt.Errorf("reject item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkPurchased transiciona Aprobado/Postergado → Comprado estampando precio
// total de línea, cantidad real y fecha de compra.
func (r *ShoppingItemRepo) MarkPurchased(itemID string, price, quantity decimal.Decimal, date time.Time) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE shopping_items SET status = $5, price_real = $2, quantity_approved = $3, shopping_date = $4
		 WHERE id = $1 AND status = ANY($6)`,
		itemID, price, quantity, date,
		string(lifecycle.StatusComprado),
		[]string{string(lifecycle.StatusAprobado), string(lifecycle.StatusPostergado)},
	)
	if err != nil {
		return false, fmt.Errorf("mark purchased: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Defer transiciona Aprobado/Postergado → Postergado (idempotente).
func (r *ShoppingItemRepo) Defer(itemID string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE shopping_items SET status = $2
		 WHERE id = $1 AND status = ANY($3)`,
		itemID, string(lifecycle.StatusPostergado),
		[]string{string(lifecycle.StatusAprobado), string(lifecycle.StatusPostergado)},
	)
	if err != nil {
		return false, fmt.Errorf("defer item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListPending devuelve la cola de aprobación en orden de llegada
// (created_at ascendente, la solicitud más antigua primero).
func (r *ShoppingItemRepo) ListPending() ([]repository.PendingRow, error) {
	query := `
		SELECT s.id, s.product_id, s.requester_id, s.quantity_requested, s.created_at,
		       p.name, p.unit_measure, u.username
		FROM shopping_items s
		JOIN products p ON p.id = s.product_id
		JOIN users u    ON u.id = s.requester_id
		WHERE s.status = $1
		ORDER BY s.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, string(lifecycle.StatusPendiente))
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()
	var list []repository.PendingRow
	for rows.Next() {
		var row repository.PendingRow
		if err := rows.Scan(
			&row.Item.ID, &row.Item.ProductID, &row.Item.RequesterID,
			&row.Item.QuantityRequested, &row.Item.CreatedAt,
			&row.ProductName, &row.UnitMeasure, &row.Requester,
		); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		row.Item.Status = string(lifecycle.StatusPendiente)
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListBuyable devuelve las líneas Aprobado y Postergado agrupadas por
// categoría y nombre de producto, para la pasada de compra.
func (r *ShoppingItemRepo) ListBuyable() ([]repository.BuyableRow, error) {
	query := `
		SELECT s.id, s.product_id, s.requester_id, s.quantity_requested,
		       s.quantity_approved, s.status, s.created_at,
		       p.name, p.category, p.unit_measure, p.last_price
		FROM shopping_items s
		JOIN products p ON p.id = s.product_id
		WHERE s.status = ANY($1)
		ORDER BY p.category, p.name`
	rows, err := r.q.Query(context.Background(), query,
		[]string{string(lifecycle.StatusAprobado), string(lifecycle.StatusPostergado)},
	)
	if err != nil {
		return nil, fmt.Errorf("list buyable: %w", err)
	}
	defer rows.Close()
	var list []repository.BuyableRow
	for rows.Next() {
		var row repository.BuyableRow
		var approved decimal.NullDecimal
		if err := rows.Scan(
			&row.Item.ID, &row.Item.ProductID, &row.Item.RequesterID,
			&row.Item.QuantityRequested, &approved, &row.Item.Status, &row.Item.CreatedAt,
			&row.ProductName, &row.Category, &row.UnitMeasure, &row.LastPrice,
		); err != nil {
			return nil, fmt.Errorf("scan buyable row: %w", err)
		}
		row.Item.QuantityApproved = fromNullDecimal(approved)
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListPurchased devuelve el historial Comprado, compra más reciente primero.
func (r *ShoppingItemRepo) ListPurchased() ([]repository.PurchasedRow, error) {
	query := `
		SELECT s.id, s.product_id, s.requester_id, s.quantity_requested,
		       s.quantity_approved, s.price_real, s.shopping_date, s.created_at,
		       p.name, p.category
		FROM shopping_items s
		JOIN products p ON p.id = s.product_id
		WHERE s.status = $1
		ORDER BY s.shopping_date DESC`
	rows, err := r.q.Query(context.Background(), query, string(lifecycle.StatusComprado))
	if err != nil {
		return nil, fmt.Errorf("list purchased: %w", err)
	}
	defer rows.Close()
	var list []repository.PurchasedRow
	for rows.Next() {
		var row repository.PurchasedRow
		var approved, price decimal.NullDecimal
		if err := rows.Scan(
			&row.Item.ID, &row.Item.ProductID, &row.Item.RequesterID,
			&row.Item.QuantityRequested, &approved, &price,
			&row.Item.ShoppingDate, &row.Item.CreatedAt,
			&row.ProductName, &row.Category,
		); err != nil {
			return nil, fmt.Errorf("scan purchased row: %w", err)
		}
		row.Item.Status = string(lifecycle.StatusComprado)
		row.Item.QuantityApproved = fromNullDecimal(approved)
		row.Item.PriceReal = fromNullDecimal(price)
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *ShoppingItemRepo) scanOne(row pgx.Row) (*entity.ShoppingItem, error) {
	var it entity.ShoppingItem
	var approved, price decimal.NullDecimal
	err := row.Scan(
		&it.ID, &it.ProductID, &it.RequesterID, &it.QuantityRequested,
		&approved, &it.Status, &price, &it.ShoppingDate, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	it.QuantityApproved = fromNullDecimal(approved)
	it.PriceReal = fromNullDecimal(price)
	return &it, nil
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
