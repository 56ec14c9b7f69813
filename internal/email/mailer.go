package email

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/syndik/internal/domain/money"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

//go:generate mockgen -source=mailer.go -destination=mock_mailer.go -package=email Mailer

// Recipient destinatario de una notificación.
type Recipient struct {
	Email string
	Name  string
}

// AllocationLine una línea de imputación en el recibo.
type AllocationLine struct {
	Label  string
	Amount money.Amount
}

// Mailer es lo que consumen los servicios HTTP.
type Mailer interface {
	SendOTP(ctx context.Context, to Recipient, code, purpose string, ttl time.Duration) error
	SendInvitation(ctx context.Context, to Recipient, residence, apartment, link string) error
	SendPaymentReceipt(ctx context.Context, to Recipient, amount, credit money.Amount, lines []AllocationLine) error
	SendPaymentRejected(ctx context.Context, to Recipient, amount money.Amount, reason string) error
	SendDocumentApproved(ctx context.Context, to Recipient, residence string) error
	SendDocumentRejected(ctx context.Context, to Recipient, residence, note string) error
}

// FailureObserver permite contar envíos fallidos (métricas).
type FailureObserver func(template string)

// Service implementa Mailer: renderiza con Renderer y entrega con Sender.
type Service struct {
	sender    Sender
	renderer  *Renderer
	currency  string
	onFailure FailureObserver
}

var _ Mailer = (*Service)(nil)

func NewService(sender Sender, renderer *Renderer, currency string) *Service {
	if renderer == nil {
		renderer = NewRenderer()
	}
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return &Service{sender: sender, renderer: renderer, currency: currency}
}

// OnFailure registra un observador de fallos.
func (s *Service) OnFailure(fn FailureObserver) { s.onFailure = fn }

func (s *Service) send(ctx context.Context, tpl Template, to Recipient, vars map[string]any) error {
	if vars == nil {
		vars = map[string]any{}
	}
	vars["name"] = to.Name
	vars["currency"] = s.currency

	msg, err := s.renderer.Render(tpl, to.Email, vars)
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	if err != nil {
		if s.onFailure != nil {
			s.onFailure(string(tpl))
		}
		logger.From(ctx).Warn("email failed",
			logger.Component("email"),
			zap.String("template", string(tpl)),
			zap.String("sender", s.sender.Name()),
			logger.Err(err))
		return fmt.Errorf("email %s: %w", tpl, err)
	}
	return nil
}

var purposeLabels = map[string]string{
	"verify_email": "de vérification",
	"login":        "de connexion",
}

func (s *Service) SendOTP(ctx context.Context, to Recipient, code, purpose string, ttl time.Duration) error {
	label, ok := purposeLabels[purpose]
	if !ok {
		label = purpose
	}
	return s.send(ctx, TplOTP, to, map[string]any{
		"code":          code,
		"purpose_label": label,
		"ttl_minutes":   int(ttl.Minutes()),
	})
}

func (s *Service) SendInvitation(ctx context.Context, to Recipient, residence, apartment, link string) error {
	return s.send(ctx, TplInvitation, to, map[string]any{
		"residence": residence,
		"apartment": apartment,
		"link":      link,
	})
}

func (s *Service) SendPaymentReceipt(ctx context.Context, to Recipient, amount, credit money.Amount, lines []AllocationLine) error {
	allocs := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		allocs = append(allocs, map[string]any{"label": l.Label, "amount": l.Amount.String()})
	}
	return s.send(ctx, TplPaymentReceipt, to, map[string]any{
		"amount":      amount.String(),
		"credit":      credit.String(),
		"allocations": allocs,
	})
}

func (s *Service) SendPaymentRejected(ctx context.Context, to Recipient, amount money.Amount, reason string) error {
	return s.send(ctx, TplPaymentRejected, to, map[string]any{
		"amount": amount.String(),
		"reason": reason,
	})
}

func (s *Service) SendDocumentApproved(ctx context.Context, to Recipient, residence string) error {
	return s.send(ctx, TplDocumentApproved, to, map[string]any{"residence": residence})
}

func (s *Service) SendDocumentRejected(ctx context.Context, to Recipient, residence, note string) error {
	return s.send(ctx, TplDocumentRejected, to, map[string]any{"residence": residence, "note": note})
}
