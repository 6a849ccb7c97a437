package ports

import (
	"io"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// DeliveryNoteDocument datos de impresión de una nota de entrega.
type DeliveryNoteDocument struct {
	Note         *entity.DeliveryNote
	ProjectName  string
	ClientName   string
	LocationName string
}

// DocumentRenderer genera las vistas de impresión (PDF).
type DocumentRenderer interface {
	RenderDeliveryNote(doc DeliveryNoteDocument) ([]byte, error)
	RenderPurchaseOrder(order *entity.PurchaseOrder) ([]byte, error)
}

// OrderSheet hoja de cálculo de órdenes que se llena fila por fila.
type OrderSheet interface {
	Append(order dto.PurchaseOrderResponse) error
	// WriteTo cierra la hoja y escribe el libro completo.
	WriteTo(w io.Writer) (int64, error)
	Close() error
}

// SpreadsheetExporter genera los reportes XLSX.
type SpreadsheetExporter interface {
	NewOrderSheet() (OrderSheet, error)
	WriteStock(w io.Writer, rows []dto.StockRow) error
}
