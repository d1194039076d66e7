// Package metrics exposes the pipeline's operational counters through
// Prometheus. Failures of the metrics layer never affect classification or
// routing; counters are incremented out of band on the hot path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the fraud pipeline
type Metrics struct {
	registry *prometheus.Registry

	TransactionsConsumed prometheus.Counter
	MalformedRecords     *prometheus.CounterVec
	ProfileUpdates       prometheus.Counter
	Enriched             *prometheus.CounterVec
	AlertsPublished      prometheus.Counter
	PublishFailures      prometheus.Counter
	LogsShipped          prometheus.Counter
	LogShipFailures      prometheus.Counter
	AlertsArchived       prometheus.Counter
	ProfileTableSize     prometheus.Gauge
}

// New creates and registers the pipeline collectors on a fresh registry
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TransactionsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_consumed_total",
			Help:      "Total number of transaction records fetched from the feed",
		}),
		MalformedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_records_total",
			Help:      "Total number of records skipped as malformed, per feed",
		}, []string{"feed"}),
		ProfileUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_updates_total",
			Help:      "Total number of profile upserts applied to the reference table",
		}),
		Enriched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enriched_transactions_total",
			Help:      "Total number of enriched transactions, by profile lookup outcome",
		}, []string{"lookup"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Total number of classified-positive records published to the alert channel",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_publish_failures_total",
			Help:      "Total number of alert publishes that exhausted their retries",
		}),
		LogsShipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logs_shipped_total",
			Help:      "Total number of raw transaction messages shipped to the search index",
		}),
		LogShipFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_ship_failures_total",
			Help:      "Total number of search index ingestion failures (best effort, not retried)",
		}),
		AlertsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_archived_total",
			Help:      "Total number of alerts persisted to the archive",
		}),
		ProfileTableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "profile_table_size",
			Help:      "Number of distinct accounts in the reference table",
		}),
	}

	m.registry.MustRegister(
		m.TransactionsConsumed,
		m.MalformedRecords,
		m.ProfileUpdates,
		m.Enriched,
		m.AlertsPublished,
		m.PublishFailures,
		m.LogsShipped,
		m.LogShipFailures,
		m.AlertsArchived,
		m.ProfileTableSize,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Lookup outcome label values for the Enriched counter
const (
	LookupHit  = "hit"
	LookupMiss = "miss"
)

// Feed label values for the MalformedRecords counter
const (
	FeedTransaction = "transaction"
	FeedProfile     = "profile"
)
