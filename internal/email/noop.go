package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// NoopSender sólo loguea; útil en dev cuando no hay proveedor.
type NoopSender struct{}

func (NoopSender) Name() string { return "noop" }

func (NoopSender) Send(ctx context.Context, msg Message) error {
	logger.From(ctx).Info("email (noop)",
		logger.Component("email.noop"),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
