package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	ChecksTotal       *prometheus.CounterVec
	RejectionsTotal   *prometheus.CounterVec
	CheckDuration     *prometheus.HistogramVec
	DictionaryLookups *prometheus.CounterVec
	AuditPublishes    *prometheus.CounterVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of policy checks by entry point and outcome",
		}, []string{"check", "outcome"}),
		RejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Total number of policy rejections by code",
		}, []string{"code"}),
		CheckDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent evaluating policy checks",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"check"}),
		DictionaryLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_lookups_total",
			Help:      "Total number of dictionary-strength lookups by result",
		}, []string{"result"}),
		AuditPublishes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_publishes_total",
			Help:      "Total number of audit event publishes by status",
		}, []string{"status"}),
	}
}
