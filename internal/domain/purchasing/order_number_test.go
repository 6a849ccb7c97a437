package purchasing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/orderflow-api/internal/domain/purchasing"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "WF-PO-2025-0001", purchasing.FormatOrderNumber(2025, 1))
	assert.Equal(t, "WF-PO-2025-0042", purchasing.FormatOrderNumber(2025, 42))
	assert.Equal(t, "WF-PO-2025-12345", purchasing.FormatOrderNumber(2025, 12345))
	assert.Equal(t, "WF-DN-2024-0007", purchasing.FormatNumber(purchasing.DeliveryNotePrefix, 2024, 7))
}

func TestParseNumber(t *testing.T) {
	prefix, year, seq, ok := purchasing.ParseNumber("WF-PO-2025-0042")
	assert.True(t, ok)
	assert.Equal(t, "WF-PO", prefix)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 42, seq)

	for _, bad := range []string{"", "PO-2025-0001", "WF-PO-25-0001", "WF-PO-2025-01", "WF-PO-2025-0001x"} {
		_, _, _, ok := purchasing.ParseNumber(bad)
		assert.False(t, ok, bad)
	}
}
