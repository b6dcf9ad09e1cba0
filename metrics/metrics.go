// Package metrics exposes Prometheus collectors for the HTTP surface and the ledger.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pointledger/events"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pointledger"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)

	ledgerTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Transactions recorded, by type.",
		},
		[]string{"type"},
	)

	ledgerPoints = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_total",
			Help:      "Points moved, by transaction type.",
		},
		[]string{"type"},
	)

	ledgerAccounts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "accounts_created_total",
			Help:      "Accounts created on first reference.",
		},
	)

	ledgerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "payment_requests_total",
			Help:      "Payment request transitions, by resulting status.",
		},
		[]string{"status"},
	)

	ledgerHandleChanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "handle_changes_total",
			Help:      "Handles claimed or replaced.",
		},
	)

	ledgerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "failures_total",
			Help:      "Rejected ledger operations, by error kind.",
		},
		[]string{"kind"},
	)

	quoteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quotes",
			Name:      "fetches_total",
			Help:      "Price feed fetches, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ledgerTransactions,
		ledgerPoints,
		ledgerAccounts,
		ledgerRequests,
		ledgerHandleChanges,
		ledgerFailures,
		quoteFetches,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Paths are labelled with the matched mux route template to keep cardinality bounded.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := routeTemplate(r)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordFailure counts a rejected ledger operation
func RecordFailure(kind string) {
	ledgerFailures.WithLabelValues(kind).Inc()
}

// RecordQuoteFetch counts a price feed fetch
func RecordQuoteFetch(success bool) {
	result := "error"
	if success {
		result = "ok"
	}
	quoteFetches.WithLabelValues(result).Inc()
}

// SubscribeLedgerEvents keeps the ledger counters in step with committed events
func SubscribeLedgerEvents(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		ev, ok := e.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		amount := ev.ChangeAmount
		if amount < 0 {
			amount = -amount
		}
		ledgerTransactions.WithLabelValues(string(ev.TransactionType)).Inc()
		ledgerPoints.WithLabelValues(string(ev.TransactionType)).Add(float64(amount))
	})

	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) {
		ledgerAccounts.Inc()
	})

	bus.Subscribe(events.EventTypePaymentRequest, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.PaymentRequestStateChangeEvent); ok {
			ledgerRequests.WithLabelValues(string(ev.NewStatus)).Inc()
		}
	})

	bus.Subscribe(events.EventTypeHandleChanged, func(ctx context.Context, e events.Event) {
		ledgerHandleChanges.Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
