package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

var (
	orderSizes  = []int{1, 5, 2, 2, 2}
	orderAligns = []align.Type{align.Center, align.Left, align.Center, align.Right, align.Right}
)

// RenderPurchaseOrder genera la orden de compra para enviar al proveedor.
func (r *MarotoRenderer) RenderPurchaseOrder(o *entity.PurchaseOrder) ([]byte, error) {
	m := r.newDocument("Orden de compra " + o.OrderNumber)

	m.AddRows(r.headerRow("ORDEN DE COMPRA", o.OrderNumber, o.OrderDate.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	eta := ""
	if o.EstimatedDeliveryDate != nil {
		eta = o.EstimatedDeliveryDate.Format("02/01/2006")
	}
	m.AddRows(fieldsRow(
		[2]string{"PROVEEDOR", o.SupplierName},
		[2]string{"PROYECTO", o.ProjectName},
		[2]string{"ESTADO", string(o.Status)},
		[2]string{"ENTREGA ESTIMADA", eta},
	)...)
	if o.OriginalOrderID != "" {
		m.AddRows(fieldsRow([2]string{"BACKORDER DE", o.OriginalOrderID})...)
	}
	m.AddRows(line.NewRow(3))

	m.AddRows(tableHeaderRow([]string{"Cant.", "Descripción", "Tipo", "Precio", "Subtotal"}, orderSizes, orderAligns))
	for _, l := range o.Items {
		m.AddRows(tableRow([]string{
			r.qty(l.Quantity), l.ItemName, l.Type, r.money(l.Price), r.money(l.Subtotal()),
		}, orderSizes, orderAligns))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(r.totalRow(o))

	if o.Notes != "" {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 2}),
			text.New(o.Notes, props.Text{Size: 8, Top: 6}),
		)))
	}
	return generate(m)
}

func (r *MarotoRenderer) totalRow(o *entity.PurchaseOrder) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(r.money(o.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}
