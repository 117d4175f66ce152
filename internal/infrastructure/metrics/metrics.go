// Package metrics exposes Prometheus collectors for ledger operations.
package metrics

import (
	"strings"
	"time"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "rtrw"

	resultSuccess = "success"
	resultError   = "error"
)

// Ledger holds the collectors for fee and waste bank operations.
// A nil *Ledger is valid and records nothing.
type Ledger struct {
	operations    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	balanceMoved  *prometheus.CounterVec
	balanceDrift  prometheus.Counter
	notifications *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// NewLedger creates the collectors and registers them with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_operations_total",
				Help:      "Ledger operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_operation_duration_seconds",
				Help:      "Ledger operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		),
		balanceMoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "waste_bank_rupiah_total",
				Help:      "Rupiah credited to or debited from waste bank balances",
			},
			[]string{"direction"},
		),
		balanceDrift: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "waste_bank_balance_drift_total",
				Help:      "Reconciliations that found the cached balance out of sync with the ledger",
			},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notices handed to the notification sink by result",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status class",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.operations, m.latency, m.balanceMoved, m.balanceDrift,
			m.notifications, m.httpRequests, m.httpLatency,
		)
	}
	return m
}

// Observe records one finished operation. The result label is "success" or
// the lower-cased domain error kind.
func (m *Ledger) Observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := Result(err)
	m.operations.WithLabelValues(operation, result).Inc()
	m.latency.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

// BalanceMoved records a committed balance change.
func (m *Ledger) BalanceMoved(delta int64) {
	if m == nil || delta == 0 {
		return
	}
	if delta > 0 {
		m.balanceMoved.WithLabelValues("credit").Add(float64(delta))
		return
	}
	m.balanceMoved.WithLabelValues("debit").Add(float64(-delta))
}

// DriftDetected counts a reconciliation mismatch.
func (m *Ledger) DriftDetected() {
	if m == nil {
		return
	}
	m.balanceDrift.Inc()
}

// NoticeSent records a delivery attempt.
func (m *Ledger) NoticeSent(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.notifications.WithLabelValues(resultError).Inc()
		return
	}
	m.notifications.WithLabelValues(resultSuccess).Inc()
}

// HTTPRequest records a served request.
func (m *Ledger) HTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, statusClass(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Result maps an error to a low-cardinality label value.
func Result(err error) string {
	if err == nil {
		return resultSuccess
	}
	if kind := shared.KindOf(err); kind != "" {
		return strings.ToLower(string(kind))
	}
	return resultError
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
