// Package monitor records per-operation count, duration, and error-rate
// metrics. It observes outcomes and always hands the original error back to
// the caller; it never swallows failures.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a derived snapshot for one operation name.
type Metrics struct {
	Count         int64
	TotalTime     time.Duration
	AverageTime   time.Duration
	Errors        int64
	ErrorRate     float64 // percent
	LastExecution time.Time
}

// opStats is the accumulating state behind a Metrics snapshot.
type opStats struct {
	count     int64
	totalTime time.Duration
	errors    int64
	last      time.Time
}

// Monitor measures operations by name. Construct one per process (or per
// test) and pass it explicitly; there is no package-level instance.
type Monitor struct {
	now func() time.Time

	mu  sync.Mutex
	ops map[string]*opStats

	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Monitor that also exports its measurements to the given
// Prometheus registerer.
func New(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)
	return &Monitor{
		now: time.Now,
		ops: make(map[string]*opStats),
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "access_operations_total",
			Help: "Total number of measured operations",
		}, []string{"operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "access_operation_errors_total",
			Help: "Total number of failed operations",
		}, []string{"operation"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "access_operation_duration_seconds",
			Help:    "Operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// Measure runs op, records its duration and outcome under name, and returns
// op's error unchanged.
func (m *Monitor) Measure(ctx context.Context, name string, op func(context.Context) error) error {
	start := m.now()
	err := op(ctx)
	m.record(name, m.now().Sub(start), err)
	return err
}

func (m *Monitor) record(name string, elapsed time.Duration, err error) {
	m.mu.Lock()
	s, ok := m.ops[name]
	if !ok {
		s = &opStats{}
		m.ops[name] = s
	}
	s.count++
	s.totalTime += elapsed
	s.last = m.now()
	if err != nil {
		s.errors++
	}
	m.mu.Unlock()

	m.calls.WithLabelValues(name).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(name).Inc()
	}
}

// Snapshot returns derived metrics for every operation measured so far.
func (m *Monitor) Snapshot() map[string]Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Metrics, len(m.ops))
	for name, s := range m.ops {
		metric := Metrics{
			Count:         s.count,
			TotalTime:     s.totalTime,
			Errors:        s.errors,
			LastExecution: s.last,
		}
		if s.count > 0 {
			metric.AverageTime = s.totalTime / time.Duration(s.count)
			metric.ErrorRate = float64(s.errors) / float64(s.count) * 100
		}
		out[name] = metric
	}
	return out
}
