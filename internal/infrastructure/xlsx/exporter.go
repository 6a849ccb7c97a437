package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
)

const (
	ordersSheet = "Ordenes"
	stockSheet  = "Existencias"
	dateLayout  = "2006-01-02"
)

var (
	_ ports.SpreadsheetExporter = (*Exporter)(nil)
	_ ports.OrderSheet          = (*OrderSheet)(nil)

	orderHeader = []string{"Número", "Estado", "Proveedor", "Proyecto", "Fecha", "Entrega estimada", "Líneas", "Total", "Vencida", "Backorder de"}
	stockHeader = []string{"SKU", "Artículo", "Ubicación", "Cantidad"}

	orderWidths = []colWidth{{1, 1, 18}, {3, 4, 28}}
	stockWidths = []colWidth{{2, 3, 30}}
)

type colWidth struct {
	min, max int
	width    float64
}

// Exporter genera los libros XLSX con excelize.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// OrderSheet hoja de órdenes escrita en streaming (una fila por orden).
type OrderSheet struct {
	f   *excelize.File
	sw  *excelize.StreamWriter
	row int
}

// NewOrderSheet abre un libro nuevo con la cabecera de órdenes.
func (e *Exporter) NewOrderSheet() (ports.OrderSheet, error) {
	f, sw, err := newStreamBook(ordersSheet, orderHeader, orderWidths)
	if err != nil {
		return nil, err
	}
	return &OrderSheet{f: f, sw: sw, row: 2}, nil
}

// Append agrega una orden.
func (s *OrderSheet) Append(o dto.PurchaseOrderResponse) error {
	eta := ""
	if o.EstimatedDeliveryDate != nil {
		eta = o.EstimatedDeliveryDate.Format(dateLayout)
	}
	overdue := "No"
	if o.Overdue {
		overdue = "Sí"
	}
	cell, _ := excelize.CoordinatesToCellName(1, s.row)
	if err := s.sw.SetRow(cell, []interface{}{
		o.OrderNumber,
		o.Status,
		o.SupplierName,
		o.ProjectName,
		o.OrderDate.Format(dateLayout),
		eta,
		len(o.Items),
		o.Total.InexactFloat64(),
		overdue,
		o.OriginalOrderID,
	}); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", s.row, err)
	}
	s.row++
	return nil
}

// WriteTo cierra el stream y escribe el libro.
func (s *OrderSheet) WriteTo(w io.Writer) (int64, error) {
	if err := s.sw.Flush(); err != nil {
		return 0, fmt.Errorf("xlsx: flush: %w", err)
	}
	return s.f.WriteTo(w)
}

func (s *OrderSheet) Close() error { return s.f.Close() }

// WriteStock escribe el libro de existencias por ubicación.
func (e *Exporter) WriteStock(w io.Writer, rows []dto.StockRow) error {
	f, sw, err := newStreamBook(stockSheet, stockHeader, stockWidths)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		location := r.LocationName
		if location == "" {
			location = r.LocationID
		}
		if err := sw.SetRow(cell, []interface{}{r.SKU, r.ItemName, location, r.Quantity.InexactFloat64()}); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

// newStreamBook crea un libro con una sola hoja nombrada y su cabecera en negrita.
// Los anchos de columna deben fijarse antes de la primera fila.
func newStreamBook(sheet string, header []string, widths []colWidth) (*excelize.File, *excelize.StreamWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("xlsx: stream: %w", err)
	}
	for _, w := range widths {
		if err := sw.SetColWidth(w.min, w.max, w.width); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("xlsx: ancho: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", cells); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	return f, sw, nil
}
