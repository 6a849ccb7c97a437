package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/xlsx"
)

func TestOrderSheet(t *testing.T) {
	sheet, err := xlsx.NewExporter().NewOrderSheet()
	require.NoError(t, err)
	defer sheet.Close()

	for _, n := range []string{"WF-PO-2026-0001", "WF-PO-2026-0002"} {
		require.NoError(t, sheet.Append(dto.PurchaseOrderResponse{
			OrderNumber: n,
			Status:      "Aprobada",
			Total:       decimal.RequireFromString("125.5"),
			OrderDate:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Overdue:     true,
		}))
	}
	var buf bytes.Buffer
	_, err = sheet.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Ordenes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Número", rows[0][0])
	assert.Equal(t, "WF-PO-2026-0002", rows[2][0])
	assert.Equal(t, "2026-01-02", rows[1][4])
	assert.Equal(t, "125.5", rows[1][7])
	assert.Equal(t, "Sí", rows[1][8])
}

func TestWriteStock(t *testing.T) {
	var buf bytes.Buffer
	err := xlsx.NewExporter().WriteStock(&buf, []dto.StockRow{
		{SKU: "A-1", ItemName: "Cable", LocationID: "L1", Quantity: decimal.NewFromInt(7)},
		{SKU: "B-1", ItemName: "Tubo", LocationID: "L2", LocationName: "Camión", Quantity: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Existencias")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A-1", "Cable", "L1", "7"}, rows[1])
	assert.Equal(t, "Camión", rows[2][2])
}
