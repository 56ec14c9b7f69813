// Package router arma el árbol de rutas chi de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dropDatabas3/syndik/internal/http/controllers"
	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	mw "github.com/dropDatabas3/syndik/internal/http/middlewares"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/rate"
)

// Deps contiene todo lo necesario para registrar las rutas.
type Deps struct {
	Controllers *controllers.Controllers
	Issuer      *jwtx.Issuer
	Resolver    access.Resolver
	Roles       access.RoleLookup // nil = se confía en el claim role del JWT
	Metrics     *metrics.Metrics // nil = sin /metrics
	Limiter     rate.Limiter     // nil = sin rate limiting

	CORSOrigins []string
	Tracing     bool
	GlobalRate  mw.RateRule
	LoginRate   mw.RateRule
	OTPRate     mw.RateRule
}

// New construye el handler raíz.
//
//	/healthz /readyz /metrics      sin auth ni logging
//	/v1/auth/*                     público + rate limit
//	/v1/...                        bearer JWT, residencia resuelta por WithResidence
//	/v1/admin/*                    sólo admin
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
	)
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", mw.ResidenceHeader, "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(
			mw.WithLogging(),
			mw.WithMetrics(d.Metrics),
		)
		if d.Tracing {
			v1.Use(mw.WithTracing())
		}
		v1.Use(
			mw.WithNoStore(),
			mw.WithRateLimit(d.Limiter, d.GlobalRate, nil),
		)
		registerAuthRoutes(v1, d)
		registerResidenceRoutes(v1, d)
		registerAdminRoutes(v1, d)
	})
	return r
}

// h adapta un HandlerFunc de controller a los middlewares por ruta.
func h(fn http.HandlerFunc, mws ...mw.Middleware) http.Handler {
	return mw.Chain(fn, mws...)
}
