package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalNotification datos que recibe el aprobador de una orden de compra.
type ApprovalNotification struct {
	Recipient   string
	OrderID     string
	OrderNumber string
	Amount      decimal.Decimal
	ApprovalURL string
	Date        time.Time
	ProjectName string
}

// ApprovalNotifier despacha la solicitud de aprobación. Un error significa que el aprobador
// no fue notificado.
type ApprovalNotifier interface {
	SendApprovalRequest(ctx context.Context, n ApprovalNotification) error
}

// ApprovalTokens emite y verifica los enlaces firmados de aprobación.
type ApprovalTokens interface {
	Issue(orderID string) (string, error)
	Verify(token string) (orderID string, err error)
}
