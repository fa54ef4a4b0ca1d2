package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote subscription metrics
	RemoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenafeed_remote_calls_total",
			Help: "Total number of remote subscribe/unsubscribe calls by addressing and operation",
		},
		[]string{"addressing", "op"},
	)

	RemoteSubscriptionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arenafeed_remote_subscriptions_active",
			Help: "Number of remote subscriptions currently held by addressing",
		},
		[]string{"addressing"},
	)

	// Registry metrics
	RegistryKeys = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arenafeed_registry_keys",
			Help: "Number of active registry keys by entity kind and signal",
		},
		[]string{"kind", "signal"},
	)

	// Dispatch metrics
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenafeed_events_total",
			Help: "Total number of inbound updates matched by kind and result",
		},
		[]string{"kind", "result"},
	)

	// Reconciliation metrics
	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arenafeed_reconciliation_duration_seconds",
			Help:    "Time taken to reconcile all engines against a new composition",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReconciliationCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arenafeed_reconciliation_cycles_total",
			Help: "Total number of reconciliation cycles",
		},
	)

	// Notifier metrics
	DirtyBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arenafeed_dirty_batches_total",
			Help: "Total number of dirty-category batches flushed",
		},
	)

	ThumbFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenafeed_thumb_fetches_total",
			Help: "Total number of thumbnail fetches by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RemoteCallsTotal)
	prometheus.MustRegister(RemoteSubscriptionsActive)
	prometheus.MustRegister(RegistryKeys)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(ReconciliationDuration)
	prometheus.MustRegister(ReconciliationCyclesTotal)
	prometheus.MustRegister(DirtyBatchesTotal)
	prometheus.MustRegister(ThumbFetchesTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the time elapsed since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in seconds on h
func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}
