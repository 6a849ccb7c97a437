package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// OrderStreamer fuente del modelo de lectura de órdenes.
type OrderStreamer interface {
	Stream(ctx context.Context, filter repository.OrderFilter, fn func(dto.PurchaseOrderResponse) error) error
}

// StockReporter fuente del reporte de existencias.
type StockReporter interface {
	StockReport(ctx context.Context) ([]dto.StockRow, error)
}

// ExportUseCase exporta órdenes y existencias a XLSX.
type ExportUseCase struct {
	orders   OrderStreamer
	stock    StockReporter
	exporter ports.SpreadsheetExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(orders OrderStreamer, stock StockReporter, exporter ports.SpreadsheetExporter) *ExportUseCase {
	return &ExportUseCase{orders: orders, stock: stock, exporter: exporter}
}

// ExportOrders escribe en w el libro con las órdenes que cumplen el filtro.
func (uc *ExportUseCase) ExportOrders(ctx context.Context, filter repository.OrderFilter, w io.Writer) error {
	sheet, err := uc.exporter.NewOrderSheet()
	if err != nil {
		return err
	}
	defer sheet.Close()
	if err := uc.orders.Stream(ctx, filter, sheet.Append); err != nil {
		return err
	}
	_, err = sheet.WriteTo(w)
	return err
}

// ExportStock escribe en w el libro de existencias por ubicación.
func (uc *ExportUseCase) ExportStock(ctx context.Context, w io.Writer) error {
	rows, err := uc.stock.StockReport(ctx)
	if err != nil {
		return err
	}
	return uc.exporter.WriteStock(w, rows)
}
