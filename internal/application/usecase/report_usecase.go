package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// HistoryPDFGenerator puerto del generador de la rendición imprimible del
// historial de compras.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, summary *dto.ReportSummaryResponse, items []dto.PurchasedItemResponse) ([]byte, error)
}

// ReportUseCase rollups de solo lectura sobre las líneas Comprado: totales
// globales, gasto por categoría y gasto por mes. Sin camino de escritura
// hacia el libro de solicitudes.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	itemRepo      repository.ShoppingItemRepository
	pdfGenerator  HistoryPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	analyticsRepo repository.AnalyticsRepository,
	itemRepo repository.ShoppingItemRepository,
	pdfGenerator HistoryPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		analyticsRepo: analyticsRepo,
		itemRepo:      itemRepo,
		pdfGenerator:  pdfGenerator,
	}
}

// Summary construye el resumen del historial. Las tres consultas al
// repositorio corren en paralelo.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.ReportSummaryResponse, error) {
	type totalsResult struct {
		totals repository.PurchaseTotals
		err    error
	}
	type categoryResult struct {
		rows []repository.CategorySpend
		err  error
	}
	type monthResult struct {
		rows []repository.MonthSpend
		err  error
	}

	totalsCh := make(chan totalsResult, 1)
	categoryCh := make(chan categoryResult, 1)
	monthCh := make(chan monthResult, 1)

	go func() {
		t, err := uc.analyticsRepo.GetPurchaseTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetSpendByCategory(ctx)
		categoryCh <- categoryResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetSpendByMonth(ctx)
		monthCh <- monthResult{rows, err}
	}()

	totals := <-totalsCh
	byCategory := <-categoryCh
	byMonth := <-monthCh

	if totals.err != nil {
		return nil, fmt.Errorf("reporte: totales: %w", totals.err)
	}
	if byCategory.err != nil {
		return nil, fmt.Errorf("reporte: gasto por categoría: %w", byCategory.err)
	}
	if byMonth.err != nil {
		return nil, fmt.Errorf("reporte: gasto por mes: %w", byMonth.err)
	}

	categories := make([]dto.CategorySpendDTO, 0, len(byCategory.rows))
	for _, r := range byCategory.rows {
		categories = append(categories, dto.CategorySpendDTO{Category: r.Category, Spend: r.Spend.Round(2)})
	}
	months := make([]dto.MonthSpendDTO, 0, len(byMonth.rows))
	for _, r := range byMonth.rows {
		months = append(months, dto.MonthSpendDTO{Month: r.Month, Spend: r.Spend.Round(2)})
	}

	return &dto.ReportSummaryResponse{
		TotalSpend:    totals.totals.TotalSpend.Round(2),
		ItemCount:     totals.totals.ItemCount,
		MeanLinePrice: totals.totals.MeanLinePrice.Round(2),
		ByCategory:    categories,
		ByMonth:       months,
	}, nil
}

// History devuelve el historial completo, compra más reciente primero.
func (uc *ReportUseCase) History() (*dto.HistoryResponse, error) {
	rows, err := uc.itemRepo.ListPurchased()
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchasedItemResponse, 0, len(rows))
	for _, r := range rows {
		item := dto.PurchasedItemResponse{
			ID:          r.Item.ID,
			ProductName: r.ProductName,
			Category:    r.Category,
			Quantity:    r.Item.QuantityRequested,
		}
		if r.Item.QuantityApproved != nil {
			item.Quantity = *r.Item.QuantityApproved
		}
		if r.Item.PriceReal != nil {
			item.Price = *r.Item.PriceReal
		}
		if r.Item.ShoppingDate != nil {
			item.ShoppingDate = *r.Item.ShoppingDate
		} else {
			item.ShoppingDate = time.Time{}
		}
		items = append(items, item)
	}
	return &dto.HistoryResponse{Items: items, Total: len(items)}, nil
}

// HistoryPDF genera la rendición imprimible del historial.
func (uc *ReportUseCase) HistoryPDF(ctx context.Context) ([]byte, error) {
	summary, err := uc.Summary(ctx)
	if err != nil {
		return nil, err
	}
	history, err := uc.History()
	if err != nil {
		return nil, err
	}
	return uc.pdfGenerator.GenerateHistoryPDF(ctx, summary, history.Items)
}
