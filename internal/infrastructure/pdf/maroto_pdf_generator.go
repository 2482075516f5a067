// Package pdf implementa la rendición imprimible del historial de compras del
// hogar usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Gasto total / Líneas compradas / Precio promedio  │
//	│  GASTO POR CATEGORÍA: tabla de dos columnas                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTORIAL: Fecha | Producto | Categoría | Cant | Precio    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.HistoryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ usecase.HistoryPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateHistoryPDF(
	_ context.Context,
	summary *dto.ReportSummaryResponse,
	items []dto.PurchasedItemResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de compras del hogar", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))

	if len(summary.ByCategory) > 0 {
		m.AddRows(sectionTitleRow("GASTO POR CATEGORÍA"))
		for _, r := range categoryRows(summary.ByCategory) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitleRow("HISTORIAL DE COMPRAS"))
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(items) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte + fecha de generación.
func headerRow() core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New("COMPRAS DEL HOGAR", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Rendición del historial de compras", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// summaryRow: los tres indicadores del resumen en una sola banda.
func summaryRow(summary *dto.ReportSummaryResponse) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center,
				Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center,
				Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		metric("GASTO TOTAL", "$"+summary.TotalSpend.StringFixed(2)),
		metric("LÍNEAS COMPRADAS", fmt.Sprintf("%d", summary.ItemCount)),
		metric("PRECIO PROMEDIO", "$"+summary.MeanLinePrice.StringFixed(2)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

// categoryRows: una fila por categoría, gasto alineado a la derecha.
func categoryRows(categories []dto.CategorySpendDTO) []core.Row {
	result := make([]core.Row, 0, len(categories))
	for _, c := range categories {
		result = append(result, row.New(5).Add(
			col.New(6).Add(text.New(c.Category, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 2,
			})),
			col.New(3).Add(text.New("$"+c.Spend.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(3),
		))
	}
	return result
}

// tableHeaderRow: cabecera de la tabla del historial.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Categoría", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
	)
}

// tableDetailRows: una fila por compra, más reciente primero.
func tableDetailRows(items []dto.PurchasedItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		fecha := "—"
		if !it.ShoppingDate.IsZero() {
			fecha = it.ShoppingDate.Format("02/01/2006")
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(fecha, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(4).Add(text.New(it.ProductName, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(3).Add(text.New(it.Category, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(1).Add(text.New(it.Quantity.StringFixed(0), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New("$"+it.Price.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}
