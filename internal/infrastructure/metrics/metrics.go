package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsCreated *prometheus.CounterVec
	MovementsDeleted *prometheus.CounterVec
	MovementDuration prometheus.Histogram
	MovementAmount   *prometheus.HistogramVec
	MovementErrors   *prometheus.CounterVec

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Client metrics
	ClientsCreated prometheus.Counter
	ClientLookups  *prometheus.CounterVec

	// Report metrics
	ReportsGenerated *prometheus.CounterVec
	ReportRows       prometheus.Histogram

	// Reconciliation metrics
	ReconciliationDiscrepancies prometheus.Gauge

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Movement metrics
		MovementsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_movements_created_total",
				Help: "Total number of movements created by type",
			},
			[]string{"type"},
		),
		MovementsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_movements_deleted_total",
				Help: "Total number of movements reversed and deleted by type",
			},
			[]string{"type"},
		),
		MovementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobank_movement_duration_seconds",
			Help:    "Duration of movement operations",
			Buckets: prometheus.DefBuckets,
		}),
		MovementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_movement_amount",
				Help:    "Movement amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
		MovementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_movement_errors_total",
				Help: "Total number of rejected movements by reason",
			},
			[]string{"error_type"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Client metrics
		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_clients_created_total",
			Help: "Total number of clients created",
		}),
		ClientLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_client_lookups_total",
				Help: "Remote client lookups by result",
			},
			[]string{"result"},
		),

		// Report metrics
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_reports_generated_total",
				Help: "Total number of account statements by outcome",
			},
			[]string{"status"},
		),
		ReportRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobank_report_rows",
			Help:    "Number of rows per generated statement",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
		}),

		// Reconciliation metrics
		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobank_reconciliation_discrepancies",
			Help: "Accounts whose balance disagrees with their movements at the last check",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobank_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		// Database metrics
		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_db_retries_total",
				Help: "Transactions retried after a transient failure",
			},
			[]string{"reason"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_outbox_published_total",
			Help: "Outbox events delivered to the broker",
		}),
		OutboxFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_outbox_failures_total",
			Help: "Outbox events that failed to publish",
		}),
	}
}
