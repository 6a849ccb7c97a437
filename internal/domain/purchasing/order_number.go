package purchasing

import (
	"fmt"
	"regexp"
	"strconv"
)

// Prefijos de numeración.
const (
	PurchaseOrderPrefix = "WF-PO"
	DeliveryNotePrefix  = "WF-DN"
)

var numberPattern = regexp.MustCompile(`^(WF-[A-Z]{2})-(\d{4})-(\d{4,})$`)

// FormatNumber arma el número de documento: <prefijo>-<año>-<secuencia de 4 dígitos>.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// FormatOrderNumber número de orden de compra WF-PO-<año>-####.
func FormatOrderNumber(year, seq int) string {
	return FormatNumber(PurchaseOrderPrefix, year, seq)
}

// ParseNumber separa un número de documento en prefijo, año y secuencia.
func ParseNumber(number string) (prefix string, year, seq int, ok bool) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return "", 0, 0, false
	}
	year, _ = strconv.Atoi(m[2])
	seq, _ = strconv.Atoi(m[3])
	return m[1], year, seq, true
}
