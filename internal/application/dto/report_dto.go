package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpendDTO gasto por categoría.
type CategorySpendDTO struct {
	Category string          `json:"category"`
	Spend    decimal.Decimal `json:"spend"`
}

// MonthSpendDTO gasto por mes calendario (YYYY-MM).
type MonthSpendDTO struct {
	Month string          `json:"month"`
	Spend decimal.Decimal `json:"spend"`
}

// ReportSummaryResponse resumen del historial de compras.
type ReportSummaryResponse struct {
	TotalSpend    decimal.Decimal    `json:"total_spend"`
	ItemCount     int                `json:"item_count"`
	MeanLinePrice decimal.Decimal    `json:"mean_line_price"`
	ByCategory    []CategorySpendDTO `json:"by_category"`
	ByMonth       []MonthSpendDTO    `json:"by_month"`
}

// PurchasedItemResponse línea del historial de compras (más reciente primero).
type PurchasedItemResponse struct {
	ID           string          `json:"id"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ShoppingDate time.Time       `json:"shopping_date"`
}

// HistoryResponse historial de compras completo.
type HistoryResponse struct {
	Items []PurchasedItemResponse `json:"items"`
	Total int                     `json:"total"`
}
