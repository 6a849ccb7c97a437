// Package pdf genera las vistas de impresión (nota de entrega y orden de compra) con Maroto v2.
//
// Layout común de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + título    │  N° documento + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: proyecto / proveedor / ubicación / estado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: líneas del documento                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: totales o firmas                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.DocumentRenderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa ports.DocumentRenderer.
type MarotoRenderer struct {
	company string
	printer *message.Printer
}

// NewMarotoRenderer construye el renderer; company aparece en el encabezado.
func NewMarotoRenderer(company string) *MarotoRenderer {
	return &MarotoRenderer{company: company, printer: message.NewPrinter(language.Spanish)}
}

func (r *MarotoRenderer) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(r.company, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: empresa + título (izq) y número + fecha (der).
func (r *MarotoRenderer) headerRow(title, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3}),
			text.New("Fecha: "+date, props.Text{Size: 8, Align: align.Right, Top: 11, Color: colorGray}),
		),
	)
}

// fieldsRow: pares etiqueta/valor en dos columnas.
func fieldsRow(fields ...[2]string) []core.Row {
	rows := make([]core.Row, 0, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		cols := []core.Col{fieldCol(fields[i])}
		if i+1 < len(fields) {
			cols = append(cols, fieldCol(fields[i+1]))
		} else {
			cols = append(cols, col.New(6))
		}
		rows = append(rows, row.New(10).Add(cols...))
	}
	return rows
}

func fieldCol(f [2]string) core.Col {
	return col.New(6).Add(
		text.New(f[0], props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		text.New(nonEmpty(f[1], "—"), props.Text{Size: 9, Top: 5}),
	)
}

// tableHeaderRow cabecera blanca sobre la línea primaria; sizes debe sumar 12.
func tableHeaderRow(labels []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i], Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cols...)
}

func tableRow(values []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Align: aligns[i], Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(cols...)
}

// money formatea con separador de miles y dos decimales (es: 1.250.000,50).
func (r *MarotoRenderer) money(d decimal.Decimal) string {
	return "$" + r.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// qty formatea cantidades sin decimales sobrantes.
func (r *MarotoRenderer) qty(d decimal.Decimal) string {
	return r.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
