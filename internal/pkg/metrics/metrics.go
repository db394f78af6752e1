package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_transactions_created_total",
		Help: "The total number of transactions accepted for settlement",
	})
	TransactionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_transactions_resolved_total",
		Help: "Transactions moved to a terminal status, by channel and status",
	}, []string{"channel", "status"})
	ProcessorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_processor_errors_total",
		Help: "Processor call failures, by operation and kind",
	}, []string{"operation", "kind"})
	PollAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_poll_attempts_total",
		Help: "The total number of status queries sent to the processor",
	})
	PollsAbandoned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_polls_abandoned_total",
		Help: "Poll loops that stopped with the transaction still pending, by reason",
	}, []string{"reason"})
	ActivePollers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "settlement_active_pollers",
		Help: "Number of poll loops currently running",
	})
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_client_notification_failures_total",
		Help: "Client notifications that could not be delivered, by reason (error or circuit_open)",
	}, []string{"reason"})
	SyncAttemptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_sync_attempt_duration_seconds",
		Help:    "Time spent waiting on the synchronous processor attempt",
		Buckets: prometheus.LinearBuckets(0.25, 0.5, 12),
	})
)

// RegisterEndpoint exposes the default registry on GET /metrics
func RegisterEndpoint(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
