package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New()
	m.PaymentsVerified.Inc()
	m.AmountAllocated.Add(90000)
	m.OTPSent.WithLabelValues("login").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentsVerified))
	assert.Equal(t, 90000.0, testutil.ToFloat64(m.AmountAllocated))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "syndik_payments_verified_total 1")
	assert.Contains(t, rec.Body.String(), `syndik_otp_sent_total{purpose="login"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.PaymentsRejected.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PaymentsRejected))
}
