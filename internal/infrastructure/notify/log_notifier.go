package notify

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// LogNotifier registra la solicitud en el log en lugar de enviarla (desarrollo, SMTP sin configurar).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier crea el notificador de solo log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendApprovalRequest(ctx context.Context, a ports.ApprovalNotification) error {
	n.log.Info().
		Str("recipient", a.Recipient).
		Str("order_id", a.OrderID).
		Str("order_number", a.OrderNumber).
		Str("amount", a.Amount.StringFixed(2)).
		Str("approval_url", a.ApprovalURL).
		Msg("solicitud de aprobación (solo log)")
	return nil
}
