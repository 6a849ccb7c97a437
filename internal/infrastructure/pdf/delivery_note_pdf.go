package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
)

var (
	noteSizes  = []int{2, 7, 3}
	noteAligns = []align.Type{align.Center, align.Left, align.Right}
)

// RenderDeliveryNote genera la nota de entrega con espacio para firmas.
func (r *MarotoRenderer) RenderDeliveryNote(doc ports.DeliveryNoteDocument) ([]byte, error) {
	n := doc.Note
	m := r.newDocument("Nota de entrega " + n.NoteNumber)

	m.AddRows(r.headerRow("NOTA DE ENTREGA", n.NoteNumber, n.CreatedAt.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fieldsRow(
		[2]string{"PROYECTO", doc.ProjectName},
		[2]string{"CLIENTE", doc.ClientName},
		[2]string{"DESPACHADO DESDE", doc.LocationName},
		[2]string{"ESTADO", n.Status},
	)...)
	m.AddRows(line.NewRow(3))

	m.AddRows(tableHeaderRow([]string{"Cant.", "Artículo", "Código"}, noteSizes, noteAligns))
	for _, l := range n.Items {
		m.AddRows(tableRow([]string{r.qty(l.Quantity), nonEmpty(l.ItemName, l.ItemID), l.ItemID}, noteSizes, noteAligns))
	}

	if n.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary}),
			text.New(n.Notes, props.Text{Size: 8, Top: 4}),
		)))
	}

	m.AddRows(row.New(20))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(signature("Entrega")),
		col.New(4).Add(signature("Recibe")),
		col.New(4).Add(code.NewQr(n.NoteNumber, props.Rect{Percent: 80, Center: true})),
	))

	return generate(m)
}

func signature(label string) core.Component {
	return text.New("______________________\n"+label, props.Text{Size: 8, Align: align.Center, Top: 10, Color: colorGray})
}
