package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// RequireAuth valida Authorization: Bearer <JWT> y guarda el Principal en el contexto.
// Con roles != nil el rol sale del perfil vigente y no del claim, así un
// cambio de rol corta los tokens ya emitidos.
func RequireAuth(issuer *jwtx.Issuer, roles access.RoleLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			claims, err := issuer.Parse(strings.TrimSpace(ah[7:]))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if errors.Is(err, jwtx.ErrExpired) {
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
					return
				}
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			p := Principal{UserID: claims.Subject, Role: repository.Role(claims.Role), Email: claims.Email}
			if p.UserID == "" || !p.Role.Valid() {
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			if roles != nil {
				current, err := roles.CurrentRole(r.Context(), p.UserID)
				switch {
				case errors.Is(err, repository.ErrNotFound):
					httperrors.WriteError(w, httperrors.ErrTokenInvalid)
					return
				case err != nil:
					httperrors.WriteErrorCtx(r.Context(), w, httperrors.ErrInternalServerError.WithCause(err))
					return
				}
				p.Role = current
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = logger.With(ctx, logger.UserID(p.UserID), logger.Role(string(p.Role)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole corta con 403 si el rol del principal no está en roles.
// Debe ir después de RequireAuth.
func RequireRole(roles ...repository.Role) Middleware {
	allowed := make(map[repository.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("role "+string(p.Role)+" not allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
