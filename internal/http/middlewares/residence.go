package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// ResidenceHeader permite elegir residencia (obligatorio para admin).
const ResidenceHeader = "X-Residence-ID"

// WithResidence resuelve la residencia del principal y la guarda en el contexto.
func WithResidence(resolver access.Resolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, ok := GetPrincipal(ctx)
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			id, err := resolver.ResolveResidence(ctx, p.UserID, p.Role, r.Header.Get(ResidenceHeader))
			if err != nil {
				switch {
				case errors.Is(err, access.ErrResidenceRequired):
					httperrors.WriteError(w, httperrors.ErrResidenceRequired)
				case errors.Is(err, access.ErrNotVerified):
					httperrors.WriteError(w, httperrors.ErrNotVerified)
				case errors.Is(err, repository.ErrNotFound):
					httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("residence not found"))
				default:
					httperrors.WriteErrorCtx(ctx, w, err)
				}
				return
			}

			ctx = WithResidenceID(ctx, id)
			ctx = logger.With(ctx, logger.ResidenceID(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
