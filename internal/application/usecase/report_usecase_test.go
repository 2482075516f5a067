package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/application/usecase"
	"github.com/comprascasa/compras-api/internal/domain/repository"
)

// fakeAnalyticsRepo devuelve agregados fijos, o errores configurables por consulta.
type fakeAnalyticsRepo struct {
	totals     repository.PurchaseTotals
	byCategory []repository.CategorySpend
	byMonth    []repository.MonthSpend

	totalsErr   error
	categoryErr error
	monthErr    error
}

func (r *fakeAnalyticsRepo) GetPurchaseTotals(context.Context) (repository.PurchaseTotals, error) {
	return r.totals, r.totalsErr
}

func (r *fakeAnalyticsRepo) GetSpendByCategory(context.Context) ([]repository.CategorySpend, error) {
	return r.byCategory, r.categoryErr
}

func (r *fakeAnalyticsRepo) GetSpendByMonth(context.Context) ([]repository.MonthSpend, error) {
	return r.byMonth, r.monthErr
}

// fakePDFGenerator registra la última invocación y devuelve bytes fijos.
type fakePDFGenerator struct {
	lastSummary *dto.ReportSummaryResponse
	lastItems   []dto.PurchasedItemResponse
}

func (g *fakePDFGenerator) GenerateHistoryPDF(_ context.Context, summary *dto.ReportSummaryResponse, items []dto.PurchasedItemResponse) ([]byte, error) {
	g.lastSummary = summary
	g.lastItems = items
	return []byte("%PDF-fake"), nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummary_AgregaLasTresConsultas(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		totals: repository.PurchaseTotals{
			TotalSpend:    money("152.50"),
			ItemCount:     7,
			MeanLinePrice: money("21.786"),
		},
		byCategory: []repository.CategorySpend{
			{Category: "Lácteos", Spend: money("80")},
			{Category: "Abarrotes", Spend: money("72.5")},
		},
		byMonth: []repository.MonthSpend{
			{Month: "2026-08", Spend: money("100")},
			{Month: "2026-07", Spend: money("52.5")},
		},
	}
	e := seededEnv(t)
	uc := usecase.NewReportUseCase(analytics, e.itemRepo, &fakePDFGenerator{})

	out, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, money("152.50").Equal(out.TotalSpend))
	assert.Equal(t, 7, out.ItemCount)
	assert.True(t, money("21.79").Equal(out.MeanLinePrice), "el promedio se redondea a 2 decimales")
	require.Len(t, out.ByCategory, 2)
	assert.Equal(t, "Lácteos", out.ByCategory[0].Category)
	require.Len(t, out.ByMonth, 2)
	assert.Equal(t, "2026-08", out.ByMonth[0].Month)
}

func TestSummary_ErrorDeCualquierConsultaSePropaga(t *testing.T) {
	catErr := errors.New("timeout")
	analytics := &fakeAnalyticsRepo{categoryErr: catErr}
	e := seededEnv(t)
	uc := usecase.NewReportUseCase(analytics, e.itemRepo, &fakePDFGenerator{})

	_, err := uc.Summary(context.Background())
	assert.ErrorIs(t, err, catErr)
}

func TestHistory_SoloLineasCompradas(t *testing.T) {
	e := seededEnv(t)
	ctx := context.Background()

	// Una línea comprada y una solo aprobada: el historial trae una sola.
	a, err := e.requestUC.UpsertPendingRequest(ctx, actorSolicitante, "p-leche", qty(2))
	require.NoError(t, err)
	_, err = e.requestUC.Approve(ctx, actorAdmin, a.ID, qty(2))
	require.NoError(t, err)
	_, err = e.requestUC.MarkPurchased(ctx, actorComprador, a.ID, money("12.00"), qty(2))
	require.NoError(t, err)

	b, err := e.requestUC.UpsertPendingRequest(ctx, actorSolicitante, "p-arroz", qty(1))
	require.NoError(t, err)
	_, err = e.requestUC.Approve(ctx, actorAdmin, b.ID, qty(1))
	require.NoError(t, err)

	uc := usecase.NewReportUseCase(&fakeAnalyticsRepo{}, e.itemRepo, &fakePDFGenerator{})
	out, err := uc.History()
	require.NoError(t, err)

	require.Equal(t, 1, out.Total)
	item := out.Items[0]
	assert.Equal(t, "Leche entera", item.ProductName)
	assert.Equal(t, "Lácteos", item.Category)
	assert.True(t, qty(2).Equal(item.Quantity))
	assert.True(t, money("12.00").Equal(item.Price))
	assert.False(t, item.ShoppingDate.IsZero())
}

func TestHistoryPDF_PasaResumenEHistorialAlGenerador(t *testing.T) {
	e := seededEnv(t)
	ctx := context.Background()

	a, err := e.requestUC.UpsertPendingRequest(ctx, actorSolicitante, "p-leche", qty(2))
	require.NoError(t, err)
	_, err = e.requestUC.Approve(ctx, actorAdmin, a.ID, qty(2))
	require.NoError(t, err)
	_, err = e.requestUC.MarkPurchased(ctx, actorComprador, a.ID, money("12.00"), qty(2))
	require.NoError(t, err)

	gen := &fakePDFGenerator{}
	analytics := &fakeAnalyticsRepo{
		totals: repository.PurchaseTotals{TotalSpend: money("12.00"), ItemCount: 1, MeanLinePrice: money("12.00")},
	}
	uc := usecase.NewReportUseCase(analytics, e.itemRepo, gen)

	pdfBytes, err := uc.HistoryPDF(ctx)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), pdfBytes)
	require.NotNil(t, gen.lastSummary)
	assert.Equal(t, 1, gen.lastSummary.ItemCount)
	require.Len(t, gen.lastItems, 1)
	assert.Equal(t, "Leche entera", gen.lastItems[0].ProductName)
}
