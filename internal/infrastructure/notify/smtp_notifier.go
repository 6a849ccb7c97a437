package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/pkg/config"
)

// Sender envía mensajes ya armados. *gomail.Dialer lo implementa.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

var approvalTmpl = template.Must(template.New("approval").Parse(`<!DOCTYPE html>
<html lang="es">
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Solicitud de aprobación de la orden {{.OrderNumber}}</h2>
  <p>Se creó una orden de compra que requiere su aprobación.</p>
  <table cellpadding="4">
    <tr><td><b>Orden</b></td><td>{{.OrderNumber}}</td></tr>
    {{if .ProjectName}}<tr><td><b>Proyecto</b></td><td>{{.ProjectName}}</td></tr>{{end}}
    <tr><td><b>Fecha</b></td><td>{{.Date}}</td></tr>
    <tr><td><b>Monto</b></td><td>$ {{.Amount}}</td></tr>
  </table>
  <p><a href="{{.ApprovalURL}}">Revisar y aprobar o rechazar</a></p>
  <p style="font-size: 12px; color: #777;">El enlace es personal y vence automáticamente.</p>
</body>
</html>`))

type approvalView struct {
	OrderNumber string
	ProjectName string
	Date        string
	Amount      string
	ApprovalURL string
}

// SMTPNotifier envía la solicitud de aprobación por correo.
type SMTPNotifier struct {
	sender Sender
	from   string
}

// NewSMTPNotifier crea el notificador sobre un dialer gomail.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From)
}

// NewSMTPNotifierWithSender permite inyectar el transporte.
func NewSMTPNotifierWithSender(sender Sender, from string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from}
}

// SendApprovalRequest arma y envía el correo. gomail no acepta contexto: se verifica antes de enviar.
func (n *SMTPNotifier) SendApprovalRequest(ctx context.Context, a ports.ApprovalNotification) error {
	if a.Recipient == "" {
		return fmt.Errorf("notify: destinatario vacío")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderApproval(a)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", a.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("Aprobación requerida: orden %s", a.OrderNumber))
	m.SetBody("text/html", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("notify: enviar correo: %w", err)
	}
	return nil
}

func renderApproval(a ports.ApprovalNotification) (string, error) {
	p := message.NewPrinter(language.Spanish)
	view := approvalView{
		OrderNumber: a.OrderNumber,
		ProjectName: a.ProjectName,
		Date:        a.Date.Format("02/01/2006"),
		Amount:      p.Sprintf("%.2f", a.Amount.InexactFloat64()),
		ApprovalURL: a.ApprovalURL,
	}
	var buf bytes.Buffer
	if err := approvalTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("notify: plantilla: %w", err)
	}
	return buf.String(), nil
}
