package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "ft"
	metricsSubsystem = "host"

	resultOK     = "ok"
	resultFailed = "failed"
)

type hostMetrics struct {
	calls          *prometheus.CounterVec
	storageUsage   prometheus.Gauge
	payouts        prometheus.Counter
	payoutFailures prometheus.Counter
}

func newHostMetrics() *hostMetrics {
	return &hostMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "calls_total",
			Help:      "Number of contract calls by method and result",
		}, []string{"method", "result"}),
		storageUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "storage_usage_bytes",
			Help:      "Number of bytes held by the contract storage",
		}),
		payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "payouts_total",
			Help:      "Number of payouts issued after committed calls",
		}),
		payoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "payout_failures_total",
			Help:      "Number of payouts failed to be transferred",
		}),
	}
}

func (m *hostMetrics) register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.calls, m.storageUsage, m.payouts, m.payoutFailures} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *hostMetrics) observeCall(method string, err error) {
	res := resultOK
	if err != nil {
		res = resultFailed
	}
	m.calls.WithLabelValues(method, res).Inc()
}
