package middlewares

import (
	"context"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
)

type ctxKey string

const (
	ctxPrincipalKey ctxKey = "principal"
	ctxResidenceKey ctxKey = "residence_id"
	ctxRequestIDKey ctxKey = "request_id"
)

// Principal es el usuario autenticado según el access token.
type Principal struct {
	UserID string
	Role   repository.Role
	Email  string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// GetPrincipal retorna false si el request no pasó por RequireAuth.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipalKey).(Principal)
	return p, ok
}

func WithResidenceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxResidenceKey, id)
}

func GetResidenceID(ctx context.Context) string {
	s, _ := ctx.Value(ctxResidenceKey).(string)
	return s
}

// GetScope arma el access.Scope con el principal y la residencia resuelta.
func GetScope(ctx context.Context) access.Scope {
	p, _ := GetPrincipal(ctx)
	return access.Scope{UserID: p.UserID, Role: p.Role, ResidenceID: GetResidenceID(ctx)}
}

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
