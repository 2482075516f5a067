package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// PurchaseTotals agregados globales sobre las líneas Comprado.
// MeanLinePrice es cero cuando no hay compras.
type PurchaseTotals struct {
	TotalSpend    decimal.Decimal
	ItemCount     int
	MeanLinePrice decimal.Decimal
}

// CategorySpend gasto consolidado por categoría de producto.
type CategorySpend struct {
	Category string
	Spend    decimal.Decimal
}

// MonthSpend gasto consolidado por mes calendario (etiqueta YYYY-MM).
type MonthSpend struct {
	Month string
	Spend decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura sobre el historial de
// compras. No tiene camino de escritura hacia el libro de solicitudes.
type AnalyticsRepository interface {
	GetPurchaseTotals(ctx context.Context) (PurchaseTotals, error)
	GetSpendByCategory(ctx context.Context) ([]CategorySpend, error)
	GetSpendByMonth(ctx context.Context) ([]MonthSpend, error)
}
