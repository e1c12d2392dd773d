package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

var statuses = []grid.Status{grid.StatusOptimal, grid.StatusWarning, grid.StatusCritical, grid.StatusUnknown}

// Metrics holds the Prometheus collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	// MetricValue is the latest simulated value per grid metric
	MetricValue *prometheus.GaugeVec
	// MetricStatus is 1 for the metric's current status label, 0 otherwise
	MetricStatus *prometheus.GaugeVec
	// TicksTotal counts simulator ticks per metric
	TicksTotal *prometheus.CounterVec
	// AlertsTotal counts alerts recorded per metric and status
	AlertsTotal *prometheus.CounterVec
	// ProxyRequests counts AI proxy requests by endpoint and status code
	ProxyRequests *prometheus.CounterVec
	// ProxyDuration is the AI proxy request latency
	ProxyDuration *prometheus.HistogramVec
	// HTTPRequests counts dashboard HTTP requests
	HTTPRequests *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		MetricValue: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "grid_metric_value",
				Help: "Latest simulated value of a grid metric",
			},
			[]string{"metric", "unit"},
		),
		MetricStatus: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "grid_metric_status",
				Help: "Current status of a grid metric (1 for the active status)",
			},
			[]string{"metric", "status"},
		),
		TicksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grid_ticks_total",
				Help: "Total number of simulator ticks per metric",
			},
			[]string{"metric"},
		),
		AlertsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grid_alerts_total",
				Help: "Total number of non-optimal readings recorded as alerts",
			},
			[]string{"metric", "status"},
		),
		ProxyRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_proxy_requests_total",
				Help: "Total number of AI proxy requests",
			},
			[]string{"endpoint", "status"},
		),
		ProxyDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_proxy_request_duration_seconds",
				Help:    "AI proxy request duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
	}
}

// Write records a reading. It satisfies sim.ReadingWriter.
func (m *Metrics) Write(r grid.Reading) error {
	m.MetricValue.WithLabelValues(r.Metric, r.Unit).Set(r.Value)
	for _, st := range statuses {
		v := 0.0
		if st == r.Status {
			v = 1
		}
		m.MetricStatus.WithLabelValues(r.Metric, string(st)).Set(v)
	}
	m.TicksTotal.WithLabelValues(r.Metric).Inc()
	return nil
}

// WriteAlert counts an alert. It satisfies sim.AlertWriter.
func (m *Metrics) WriteAlert(e alert.Entry) error {
	m.AlertsTotal.WithLabelValues(e.Reading.Metric, string(e.Reading.Status)).Inc()
	return nil
}

// ObserveProxy records one proxy request outcome.
func (m *Metrics) ObserveProxy(endpoint string, status int, d time.Duration) {
	m.ProxyRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.ProxyDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveHTTP counts one dashboard HTTP request.
func (m *Metrics) ObserveHTTP(method string, status int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
