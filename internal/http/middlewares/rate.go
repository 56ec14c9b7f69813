package middlewares

import (
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
	"github.com/dropDatabas3/syndik/internal/observability/logger"
	"github.com/dropDatabas3/syndik/internal/rate"
)

// RateKeyFunc define la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPRouteKey clave por IP + ruta.
func IPRouteKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// RateRule límite por ventana.
type RateRule struct {
	Limit  int
	Window time.Duration
}

// WithRateLimit aplica rule por clave. Si el limiter falla el request pasa.
func WithRateLimit(limiter rate.Limiter, rule RateRule, keyFn RateKeyFunc) Middleware {
	if limiter == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = IPRouteKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r), rule.Limit, rule.Window)
			if err != nil {
				logger.From(r.Context()).Warn("rate limit error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int(res.RetryAfter.Round(time.Second).Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
