// Package email envía las notificaciones transaccionales (OTP, invitaciones,
// recibos de pago, revisión de documentos) por SMTP o Amazon SES.
package email

import (
	"context"
	"errors"
)

var (
	ErrTemplateRender = errors.New("email: template render failed")
	ErrSendFailed     = errors.New("email: send failed")
)

// Message es un email listo para enviar.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender entrega un Message a un proveedor.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
