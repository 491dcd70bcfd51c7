package metrics

import "github.com/prometheus/client_golang/prometheus"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the point service collectors.
type Metrics struct {
	Operations *prometheus.CounterVec
}

// New registers the collectors on reg. lockCount, if not nil, backs a gauge of
// how many user ids the lock registry currently holds.
func New(reg prometheus.Registerer, lockCount func() int) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "point_operations_total",
				Help: "Point charge/use operations by outcome",
			},
			[]string{"type", "result"}, // CHARGE|USE, ok|<error code>|error
		),
	}
	reg.MustRegister(m.Operations)

	if lockCount != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "point_lock_registry_size",
				Help: "User ids holding a mutex in the lock registry",
			},
			func() float64 { return float64(lockCount()) },
		))
	}
	return m
}

// ObserveOperation counts one finished operation.
func (m *Metrics) ObserveOperation(opType, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(opType, result).Inc()
}
