package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/repository"
	"github.com/dropDatabas3/syndik/internal/http/services/access"
	jwtx "github.com/dropDatabas3/syndik/internal/jwt"
	"github.com/dropDatabas3/syndik/internal/metrics"
	"github.com/dropDatabas3/syndik/internal/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	code, _ := body["code"].(string)
	return code
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler, mk("a"), mk("b"), mk("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeCode(t, rec))
}

func TestRequireAuthAndRole(t *testing.T) {
	issuer := jwtx.NewIssuer("syndik-test", []byte("0123456789abcdef0123456789abcdef"), time.Hour)

	var got Principal
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetPrincipal(r.Context())
	}), RequireAuth(issuer, nil), RequireRole(repository.RoleSyndic, repository.RoleAdmin))

	// sin token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_MISSING", decodeCode(t, rec))

	// token basura
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "TOKEN_INVALID", decodeCode(t, rec))

	// rol no permitido
	tok, _, err := issuer.IssueAccess("u-res", "resident", "r@x.ma")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// ok
	tok, _, err = issuer.IssueAccess("u-syn", "syndic", "s@x.ma")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Principal{UserID: "u-syn", Role: repository.RoleSyndic, Email: "s@x.ma"}, got)
}

type stubResolver struct {
	id  string
	err error
}

func (s stubResolver) ResolveResidence(context.Context, string, repository.Role, string) (string, error) {
	return s.id, s.err
}

func TestWithResidence(t *testing.T) {
	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithPrincipal(r.Context(), Principal{UserID: "u1", Role: repository.RoleResident})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	var scope access.Scope
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { scope = GetScope(r.Context()) })

	rec := httptest.NewRecorder()
	Chain(final, withUser, WithResidence(stubResolver{id: "res-1"})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, access.Scope{UserID: "u1", Role: repository.RoleResident, ResidenceID: "res-1"}, scope)

	rec = httptest.NewRecorder()
	Chain(final, withUser, WithResidence(stubResolver{err: access.ErrNotVerified})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_VERIFIED", decodeCode(t, rec))

	rec = httptest.NewRecorder()
	Chain(final, withUser, WithResidence(stubResolver{err: access.ErrResidenceRequired})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "RESIDENCE_REQUIRED", decodeCode(t, rec))
}

func TestRateLimit(t *testing.T) {
	h := Chain(okHandler, WithRateLimit(rate.NewMemoryLimiter(), RateRule{Limit: 2, Window: time.Minute}, nil))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeCode(t, rec))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(WithMetrics(m))
	r.Get("/v1/fees/{id}", okHandler)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fees/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fees/def", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/v1/fees/{id}", "200")))
}

func TestSecurityHeadersAndNoStore(t *testing.T) {
	rec := httptest.NewRecorder()
	Chain(okHandler, WithSecurityHeaders(), WithNoStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
