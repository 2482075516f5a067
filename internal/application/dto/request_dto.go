package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeSetItem cantidad deseada para un producto. Cantidad cero elimina la
// fila Pendiente si existe.
type ChangeSetItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ChangeSetRequest conjunto de cambios acumulados en el cliente (el "carrito"
// de ediciones del solicitante) aplicado en una sola llamada.
type ChangeSetRequest struct {
	Items []ChangeSetItem `json:"items" validate:"required,min=1"`
}

// ChangeSetResult resultado agregado de aplicar un conjunto de cambios.
type ChangeSetResult struct {
	Saved   int      `json:"saved"`
	Removed int      `json:"removed"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ApprovalDecision decisión sobre una línea Pendiente. Si Approve y Reject
// vienen marcados a la vez, gana Reject (evita aprobar filas mal cliqueadas).
// Quantity permite al aprobador ajustar la cantidad final.
type ApprovalDecision struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Approve  bool            `json:"approve"`
	Reject   bool            `json:"reject"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ApprovalsRequest lote de decisiones de aprobación.
type ApprovalsRequest struct {
	Items []ApprovalDecision `json:"items" validate:"required,min=1"`
}

// ApprovalsResult resultado agregado del lote de aprobación.
type ApprovalsResult struct {
	Approved int      `json:"approved"`
	Rejected int      `json:"rejected"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// PendingItemResponse línea de la cola de aprobación (orden de llegada).
type PendingItemResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	UnitMeasure string          `json:"unit_measure"`
	Quantity    decimal.Decimal `json:"quantity"`
	Requester   string          `json:"requester"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BuyableItemResponse línea de la pasada de compra, agrupable por categoría.
type BuyableItemResponse struct {
	ID               string          `json:"id"`
	ProductName      string          `json:"product_name"`
	Category         string          `json:"category"`
	UnitMeasure      string          `json:"unit_measure"`
	QuantityApproved decimal.Decimal `json:"quantity_approved"`
	LastPrice        decimal.Decimal `json:"last_price"`
	Status           string          `json:"status"`
}

// PurchaseRequest registro de compra: precio total de línea y cantidad reales.
type PurchaseRequest struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ItemResponse estado autoritativo de una línea tras una operación.
type ItemResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	RequesterID      string           `json:"requester_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	QuantityApproved *decimal.Decimal `json:"quantity_approved,omitempty"`
	Status           string           `json:"status"`
	PriceReal        *decimal.Decimal `json:"price_real,omitempty"`
	ShoppingDate     *time.Time       `json:"shopping_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
