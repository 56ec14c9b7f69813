// Package audit registra acciones administrativas sensibles (verificación de
// pagos, revisión de documentos, cambios de rol) en un canal de log propio.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// Eventos conocidos.
const (
	PaymentVerified  = "payment.verified"
	PaymentRejected  = "payment.rejected"
	DocumentApproved = "document.approved"
	DocumentRejected = "document.rejected"
	RoleChanged      = "profile.role_changed"
)

// Log escribe un evento de auditoría con el actor tomado del scope del request.
func Log(ctx context.Context, event, actorID string, fields ...zap.Field) {
	l := logger.From(ctx).Named("audit")
	l.Info(event, append([]zap.Field{
		logger.String("event", event),
		logger.String("actor_id", actorID),
	}, fields...)...)
}
