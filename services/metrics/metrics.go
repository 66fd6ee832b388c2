package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "view_counter"

	ResultCounted     = "counted"
	ResultInvalid     = "invalid"
	ResultNotFound    = "not_found"
	ResultNotEligible = "not_eligible"
	ResultError       = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	ViewReports        *prometheus.CounterVec
	ViewReportDuration prometheus.Histogram
	TrackerRenders     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	return &Metrics{
		Registry: registry,
		ViewReports: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "reports_total",
			Help:      "Number of view reports received, by result",
		}, []string{"result"}),
		ViewReportDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "report_duration_seconds",
			Help:      "Time spent handling a view report",
			Buckets:   prometheus.DefBuckets,
		}),
		TrackerRenders: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "renders_total",
			Help:      "Number of tracker settings handed out to pages",
		}),
	}
}

func (m *Metrics) IncrementViewReport(result string) {
	m.ViewReports.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveViewReportDuration(seconds float64) {
	m.ViewReportDuration.Observe(seconds)
}

func (m *Metrics) IncrementTrackerRender() {
	m.TrackerRenders.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
