package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

const namespace = "gobank"

// Metrics holds the business metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Ledger metrics
	Operations         *prometheus.CounterVec
	RejectedOperations *prometheus.CounterVec
	TransferAmount     prometheus.Histogram

	// Client metrics
	ClientsCreated prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total ledger operations recorded by kind",
			},
			[]string{"kind"},
		),
		RejectedOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_rejected_total",
				Help:      "Total account operations rejected by action and reason",
			},
			[]string{"action", "reason"},
		),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_amount",
			Help:      "Transferred amounts",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_created_total",
			Help:      "Total number of clients created",
		}),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total authentication attempts by action and status",
			},
			[]string{"action", "status"},
		),
	}
}

// OperationRecorded counts a committed ledger operation.
func (m *Metrics) OperationRecorded(kind domain.OperationKind) {
	m.Operations.WithLabelValues(string(kind)).Inc()
}

// OperationRejected counts a failed account operation.
func (m *Metrics) OperationRejected(action string, err error) {
	m.RejectedOperations.WithLabelValues(action, Reason(err)).Inc()
}

// TransferCompleted observes a committed transfer amount.
func (m *Metrics) TransferCompleted(amount decimal.Decimal) {
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// ClientCreated counts a newly registered client.
func (m *Metrics) ClientCreated() {
	m.ClientsCreated.Inc()
}

// AuthAttempt counts a register, authenticate or refresh attempt.
func (m *Metrics) AuthAttempt(action string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	m.AuthAttempts.WithLabelValues(action, status).Inc()
}

// Reason maps an error to a low-cardinality label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrClientNotFound):
		return "client_not_found"
	case errors.Is(err, domain.ErrAccountClosed):
		return "account_closed"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "internal"
	}
}
