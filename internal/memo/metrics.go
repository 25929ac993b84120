package memo

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports memo table statistics, labelled by table name.
type Metrics struct {
	hits    *prometheus.CounterVec
	misses  *prometheus.CounterVec
	entries *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// that are already registered are reused, so several graphs can share one
// registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relgraph",
		Subsystem: "memo",
		Name:      "hits_total",
		Help:      "Total number of memo table hits",
	}, []string{"table"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relgraph",
		Subsystem: "memo",
		Name:      "misses_total",
		Help:      "Total number of memo table misses",
	}, []string{"table"})
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "relgraph",
		Subsystem: "memo",
		Name:      "entries",
		Help:      "Current number of entries in a memo table",
	}, []string{"table"})

	var err error
	m := &Metrics{}
	if m.hits, err = register(reg, hits); err != nil {
		return nil, err
	}
	if m.misses, err = register(reg, misses); err != nil {
		return nil, err
	}
	if m.entries, err = register(reg, entries); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) hit(table string) {
	if m != nil {
		m.hits.WithLabelValues(table).Inc()
	}
}

func (m *Metrics) miss(table string) {
	if m != nil {
		m.misses.WithLabelValues(table).Inc()
	}
}

func (m *Metrics) size(table string, n int) {
	if m != nil {
		m.entries.WithLabelValues(table).Set(float64(n))
	}
}
