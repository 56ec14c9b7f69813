// Package metrics define las métricas Prometheus del servicio.
package metrics

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors. Una instancia por registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInflight prometheus.Gauge

	PaymentsVerified  prometheus.Counter
	PaymentsRejected  prometheus.Counter
	AmountAllocated   prometheus.Counter // céntimos
	OTPSent           *prometheus.CounterVec
	EmailsFailed      *prometheus.CounterVec
	DashboardBuilds   *prometheus.CounterVec
	DocumentsReviewed *prometheus.CounterVec
}

// New crea y registra las métricas en un registry propio.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en curso",
		}),
		PaymentsVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syndik_payments_verified_total",
			Help: "Pagos verificados",
		}),
		PaymentsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syndik_payments_rejected_total",
			Help: "Pagos rechazados",
		}),
		AmountAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syndik_amount_allocated_cents_total",
			Help: "Monto imputado a cuotas y contribuciones, en céntimos",
		}),
		OTPSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syndik_otp_sent_total",
			Help: "Códigos OTP enviados por propósito",
		}, []string{"purpose"}),
		EmailsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syndik_emails_failed_total",
			Help: "Emails que fallaron (efecto secundario tragado)",
		}, []string{"template"}),
		DashboardBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syndik_dashboard_builds_total",
			Help: "Dashboards construidos, por origen (cache|db)",
		}, []string{"source"}),
		DocumentsReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syndik_documents_reviewed_total",
			Help: "Documentos revisados por resultado",
		}, []string{"status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration, m.HTTPInflight,
		m.PaymentsVerified, m.PaymentsRejected, m.AmountAllocated,
		m.OTPSent, m.EmailsFailed, m.DashboardBuilds, m.DocumentsReviewed,
	)
	return m
}

// Registry retorna el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterPool agrega gauges del pool pgx. Registrar dos veces no es error.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) error {
	err := m.registry.Register(&poolCollector{pool: pool})
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		return err
	}
	return nil
}

var (
	poolTotalDesc    = prometheus.NewDesc("pg_pool_total_conns", "Conexiones totales del pool", nil, nil)
	poolIdleDesc     = prometheus.NewDesc("pg_pool_idle_conns", "Conexiones ociosas del pool", nil, nil)
	poolAcquiredDesc = prometheus.NewDesc("pg_pool_acquired_conns", "Conexiones en uso", nil, nil)
)

type poolCollector struct{ pool *pgxpool.Pool }

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolTotalDesc
	ch <- poolIdleDesc
	ch <- poolAcquiredDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(poolTotalDesc, prometheus.GaugeValue, float64(st.TotalConns()))
	ch <- prometheus.MustNewConstMetric(poolIdleDesc, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(poolAcquiredDesc, prometheus.GaugeValue, float64(st.AcquiredConns()))
}
