package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItemResponse producto con la cantidad pendiente consolidada.
type CatalogItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand,omitempty"`
	UnitMeasure     string          `json:"unit_measure"`
	LastPrice       decimal.Decimal `json:"last_price"`
	PendingQuantity decimal.Decimal `json:"pending_quantity"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CatalogListResponse listado del catálogo.
type CatalogListResponse struct {
	Items []CatalogItemResponse `json:"items"`
	Total int                   `json:"total"`
}

// SyncResponse resultado de una sincronización del catálogo.
type SyncResponse struct {
	Source  string `json:"source"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}
