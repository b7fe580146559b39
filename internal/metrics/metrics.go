package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)

	// Sync
	SyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_sync_total",
			Help: "Push requests by result",
		},
		[]string{"result"}, // ok|missing_data|invalid|not_found|error
	)
	SnapshotsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "budget_snapshots_appended_total",
			Help: "Budget snapshots written",
		},
	)
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_fetch_total",
			Help: "Latest/history reads by result",
		},
		[]string{"kind", "result"},
	)

	// Events
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Sync events handed to the broker",
		},
		[]string{"result"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestLatency)
	prometheus.MustRegister(RequestsInFlight)
	prometheus.MustRegister(SyncTotal)
	prometheus.MustRegister(SnapshotsAppended)
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(WorkerQueueDepth)
}
