// Package pdf implementa la exportación del kardex de un item como PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del item + código de barras │ Stock + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOTES: Código | Caducidad | Stock                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS: Fecha | Tipo | Cant | Lote | Motivo | Doc     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/farmavida/farmavida-api/internal/application/report"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa report.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

var _ report.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	item *entity.Item,
	movements []*entity.Movement,
	lots []*entity.Lot,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Lotes vigentes
	m.AddRows(sectionTitleRow("LOTES"))
	m.AddRows(lotHeaderRow())
	if len(lots) == 0 {
		m.AddRows(emptyRow("Sin lotes registrados"))
	}
	for _, l := range lots {
		m.AddRows(lotRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Historial de movimientos (más reciente primero)
	m.AddRows(sectionTitleRow("MOVIMIENTOS"))
	m.AddRows(movementHeaderRow())
	if len(movements) == 0 {
		m.AddRows(emptyRow("Sin movimientos registrados"))
	}
	lotCodes := lotCodesByID(lots)
	for _, mv := range movements {
		m.AddRows(movementRow(mv, lotCodes))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del item + código de barras (izq) y stock actual (der).
func headerRow(item *entity.Item) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código de barras: "+nonEmpty(item.Barcode, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Stock actual: %d", item.Stock), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Precio: $"+item.Price.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func lotHeaderRow() core.Row {
	return row.New(6).Add(
		tableHeader("Código de lote", 5, align.Left),
		tableHeader("Caducidad", 4, align.Center),
		tableHeader("Stock", 3, align.Right),
	)
}

func lotRow(l *entity.Lot) core.Row {
	code := "—"
	if l.Code != nil {
		code = *l.Code
	}
	expiry := "sin caducidad"
	if l.Expiry != nil {
		expiry = l.Expiry.Format("2006-01-02")
	}
	return row.New(6).Add(
		col.New(5).Add(text.New(code, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(expiry, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(fmt.Sprintf("%d", l.Stock), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		tableHeader("Fecha", 3, align.Left),
		tableHeader("Tipo", 1, align.Center),
		tableHeader("Cant.", 1, align.Right),
		tableHeader("Lote", 3, align.Left),
		tableHeader("Motivo", 2, align.Left),
		tableHeader("Documento", 2, align.Left),
	)
}

func movementRow(mv *entity.Movement, lotCodes map[string]string) core.Row {
	kind := "ENT"
	kindColor := colorPrimary
	if mv.Kind == entity.MovementKindExit {
		kind = "SAL"
		kindColor = colorRed
	}
	lot := lotCodes[mv.LotID]
	if lot == "" {
		lot = "—"
	}
	return row.New(6).Add(
		col.New(3).Add(text.New(mv.CreatedAt.Format("2006-01-02 15:04"), props.Text{
			Size: 8, Top: 1, Left: 1,
		})),
		col.New(1).Add(text.New(kind, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: kindColor,
		})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", mv.Quantity), props.Text{
			Size: 8, Align: align.Right, Top: 1,
		})),
		col.New(3).Add(text.New(lot, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(nonEmpty(mv.Motive, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(nonEmpty(mv.DocumentRef, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Top: 1, Left: 2, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tableHeader(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorGray, Top: 1, Left: 1, Right: 1,
	}))
}

// lotCodesByID indexa la etiqueta legible de cada lote para la columna "Lote".
func lotCodesByID(lots []*entity.Lot) map[string]string {
	out := make(map[string]string, len(lots))
	for _, l := range lots {
		label := ""
		if l.Code != nil {
			label = *l.Code
		}
		if l.Expiry != nil {
			if label != "" {
				label += " / "
			}
			label += l.Expiry.Format("2006-01-02")
		}
		if label == "" {
			label = "sin código"
		}
		out[l.ID] = label
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
