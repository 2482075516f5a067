package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/comprascasa/compras-api/internal/infrastructure/catalog"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetch_EncabezadosEnEspanol(t *testing.T) {
	path := writeCSV(t, "Producto,Categoría,Marca,Unidad de medida\n"+
		"Leche entera,Lácteos,Colun,Litro\n"+
		"Arroz, Abarrotes ,,Kilo\n")

	feed := catalog.NewCSVFeed("", path)
	records, source, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "file", source)
	require.Len(t, records, 2)
	assert.Equal(t, "Leche entera", records[0].Name)
	assert.Equal(t, "Lácteos", records[0].Category)
	assert.Equal(t, "Colun", records[0].Brand)
	assert.Equal(t, "Litro", records[0].UnitMeasure)
	assert.Equal(t, "Abarrotes", records[1].Category, "los campos se recortan")
	assert.Empty(t, records[1].Brand)
}

func TestFetch_AliasDeEncabezados(t *testing.T) {
	path := writeCSV(t, "nombre,tipo,U-M\nPan,Panadería,Bolsa\n")

	feed := catalog.NewCSVFeed("", path)
	records, _, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Pan", records[0].Name)
	assert.Equal(t, "Panadería", records[0].Category)
	assert.Equal(t, "Bolsa", records[0].UnitMeasure)
}

func TestFetch_CSVEnLatin1(t *testing.T) {
	// Exportación vieja de hoja de cálculo: ISO-8859-1, no UTF-8.
	utf8Content := "Producto,Categoría\nAzúcar,Abarrotes\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8Content)
	require.NoError(t, err)
	path := writeCSV(t, latin1)

	feed := catalog.NewCSVFeed("", path)
	records, _, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Azúcar", records[0].Name)
	assert.Equal(t, "Abarrotes", records[0].Category)
}

func TestFetch_SinColumnaDeProducto(t *testing.T) {
	path := writeCSV(t, "Categoría,Marca\nLácteos,Colun\n")

	feed := catalog.NewCSVFeed("", path)
	_, _, err := feed.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetch_SinFuenteConfigurada(t *testing.T) {
	feed := catalog.NewCSVFeed("", "")
	_, _, err := feed.Fetch(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoSource)
}

func TestFetch_FilasConColumnasDeMas(t *testing.T) {
	path := writeCSV(t, "Producto,Categoría\nHuevos,Lácteos,extra,columnas\nSal\n")

	feed := catalog.NewCSVFeed("", path)
	records, _, err := feed.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Huevos", records[0].Name)
	assert.Equal(t, "Sal", records[1].Name)
	assert.Empty(t, records[1].Category, "fila corta: columnas faltantes quedan vacías")
}
