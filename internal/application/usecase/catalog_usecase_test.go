package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comprascasa/compras-api/internal/application/usecase"
)

// fakeFeed devuelve registros fijos, o un error si se configura.
type fakeFeed struct {
	records []usecase.ProductRecord
	source  string
	err     error
}

func (f *fakeFeed) Fetch(context.Context) ([]usecase.ProductRecord, string, error) {
	return f.records, f.source, f.err
}

func TestSync_CreaYActualizaPorNombre(t *testing.T) {
	e := seededEnv(t)
	feed := &fakeFeed{
		source: "file",
		records: []usecase.ProductRecord{
			{Name: "Leche entera", Category: "Lácteos y huevos", Brand: "Colun", UnitMeasure: "Litro"},
			{Name: "Pan de molde", Category: "Panadería", UnitMeasure: "Bolsa"},
			{Name: "   "}, // nombre vacío: se salta
		},
	}
	uc := usecase.NewCatalogUseCase(e.prodRepo, feed)

	res, err := uc.Sync(context.Background())
	require.NoError(t, err)

	// "Leche entera" ya existe en el entorno sembrado: se actualiza.
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "file", res.Source)

	leche, err := e.prodRepo.GetByName("Leche entera")
	require.NoError(t, err)
	require.NotNil(t, leche)
	assert.Equal(t, "Lácteos y huevos", leche.Category)
	assert.Equal(t, "Colun", leche.Brand)
	assert.Equal(t, "p-leche", leche.ID, "actualizar no cambia la identidad del producto")
}

func TestSync_RegistrosSinCategoriaNiUnidadRecibenDefaults(t *testing.T) {
	e := seededEnv(t)
	feed := &fakeFeed{
		source:  "url",
		records: []usecase.ProductRecord{{Name: "Servilletas"}},
	}
	uc := usecase.NewCatalogUseCase(e.prodRepo, feed)

	_, err := uc.Sync(context.Background())
	require.NoError(t, err)

	p, err := e.prodRepo.GetByName("Servilletas")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "General", p.Category)
	assert.Equal(t, "Unidad", p.UnitMeasure)
	assert.True(t, p.LastPrice.IsZero(), "un producto nuevo arranca sin precio de referencia")
}

func TestSync_ErrorDelFeedSePropaga(t *testing.T) {
	e := seededEnv(t)
	feedErr := errors.New("feed caído")
	uc := usecase.NewCatalogUseCase(e.prodRepo, &fakeFeed{err: feedErr})

	_, err := uc.Sync(context.Background())
	assert.ErrorIs(t, err, feedErr)
}

func TestList_IncluyeCantidadPendiente(t *testing.T) {
	e := seededEnv(t)
	ctx := context.Background()

	_, err := e.requestUC.UpsertPendingRequest(ctx, actorSolicitante, "p-leche", qty(3))
	require.NoError(t, err)

	uc := usecase.NewCatalogUseCase(e.prodRepo, &fakeFeed{})
	out, err := uc.List()
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)

	byName := map[string]decimal.Decimal{}
	for _, it := range out.Items {
		byName[it.Name] = it.PendingQuantity
	}
	assert.True(t, qty(3).Equal(byName["Leche entera"]))
	assert.True(t, byName["Arroz"].IsZero())
}
