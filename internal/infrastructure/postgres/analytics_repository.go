package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comprascasa/compras-api/internal/domain/lifecycle"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el historial de compras.
// price_real es el total de línea pagado, por lo que los agregados suman
// directamente sin multiplicar por cantidad.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetPurchaseTotals devuelve gasto total, número de líneas y precio medio de
// línea sobre todas las compras. COALESCE devuelve cero sin historial.
func (r *AnalyticsRepo) GetPurchaseTotals(ctx context.Context) (repository.PurchaseTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(price_real), 0) AS total_spend,
	    COUNT(*)                     AS item_count,
	    COALESCE(AVG(price_real), 0) AS mean_line_price
	FROM shopping_items
	WHERE status = $1`

	var t repository.PurchaseTotals
	err := r.pool.QueryRow(ctx, query, string(lifecycle.StatusComprado)).
		Scan(&t.TotalSpend, &t.ItemCount, &t.MeanLinePrice)
	if err != nil {
		return repository.PurchaseTotals{}, fmt.Errorf("analytics.GetPurchaseTotals: %w", err)
	}
	return t, nil
}

// GetSpendByCategory agrupa el gasto por categoría de producto, mayor gasto primero.
func (r *AnalyticsRepo) GetSpendByCategory(ctx context.Context) ([]repository.CategorySpend, error) {
	const query = `
	SELECT
	    p.category,
	    SUM(s.price_real) AS spend
	FROM shopping_items s
	JOIN products p ON p.id = s.product_id
	WHERE s.status = $1
	GROUP BY p.category
	ORDER BY spend DESC`

	rows, err := r.pool.Query(ctx, query, string(lifecycle.StatusComprado))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSpendByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategorySpend
	for rows.Next() {
		var row repository.CategorySpend
		if err := rows.Scan(&row.Category, &row.Spend); err != nil {
			return nil, fmt.Errorf("analytics.GetSpendByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSpendByMonth agrupa el gasto por mes calendario (YYYY-MM) en orden cronológico.
func (r *AnalyticsRepo) GetSpendByMonth(ctx context.Context) ([]repository.MonthSpend, error) {
	const query = `
	SELECT
	    to_char(s.shopping_date, 'YYYY-MM') AS month,
	    SUM(s.price_real)                   AS spend
	FROM shopping_items s
	WHERE s.status = $1
	GROUP BY month
	ORDER BY month`

	rows, err := r.pool.Query(ctx, query, string(lifecycle.StatusComprado))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSpendByMonth: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthSpend
	for rows.Next() {
		var row repository.MonthSpend
		if err := rows.Scan(&row.Month, &row.Spend); err != nil {
			return nil, fmt.Errorf("analytics.GetSpendByMonth scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
