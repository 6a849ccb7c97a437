package repository

import "context"

// Series de numeración de documentos.
const (
	SeriesPurchaseOrder = "PO"
	SeriesDeliveryNote  = "DN"
)

// CounterRepository asigna consecutivos por serie y año de forma atómica.
type CounterRepository interface {
	Next(ctx context.Context, series string, year int) (int, error)
}
