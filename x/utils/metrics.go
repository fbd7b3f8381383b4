package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts transactions per message path and result code and
// measures how long they take.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ledger.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "tx_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "tx_duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	if err := reg.Register(m.total); err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return m, nil
}

// Check records the outcome of a check.
func (m *Metrics) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the outcome of a delivery.
func (m *Metrics) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m *Metrics) observe(phase string, tx ledger.Tx, start time.Time, err error) {
	path := ledger.GetPath(tx)
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	m.total.WithLabelValues(phase, path, code).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
