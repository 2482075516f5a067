package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comprascasa/compras-api/internal/domain/entity"
)

// PendingRow línea Pendiente con datos de presentación del producto y del
// solicitante, para la cola de aprobación.
type PendingRow struct {
	Item        entity.ShoppingItem
	ProductName string
	UnitMeasure string
	Requester   string
}

// BuyableRow línea Aprobado/Postergado con los datos que necesita la pasada
// de compra (categoría para agrupar, último precio como referencia).
type BuyableRow struct {
	Item        entity.ShoppingItem
	ProductName string
	Category    string
	UnitMeasure string
	LastPrice   decimal.Decimal
}

// PurchasedRow línea Comprado para el historial.
type PurchasedRow struct {
	Item        entity.ShoppingItem
	ProductName string
	Category    string
}

// ShoppingItemRepository define el puerto de persistencia del libro de
// solicitudes. Las operaciones de transición son compare-and-set sobre el
// estado: devuelven false sin escribir nada cuando la precondición de estado
// no se cumple (el caso de uso distingue entonces NotFound de transición
// inválida releyendo la fila).
type ShoppingItemRepository interface {
	GetByID(id string) (*entity.ShoppingItem, error)
	GetPendingByProduct(productID string) (*entity.ShoppingItem, error)

	InsertPending(item *entity.ShoppingItem) error
	UpdatePendingQuantity(itemID, requesterID string, quantity decimal.Decimal) (bool, error)
	DeletePending(itemID string) (bool, error)

	Approve(itemID string, quantity decimal.Decimal) (bool, error)
	Reject(itemID string) (bool, error)
	MarkPurchased(itemID string, price, quantity decimal.Decimal, date time.Time) (bool, error)
	Defer(itemID string) (bool, error)

	ListPending() ([]PendingRow, error)
	ListBuyable() ([]BuyableRow, error)
	ListPurchased() ([]PurchasedRow, error)
}
