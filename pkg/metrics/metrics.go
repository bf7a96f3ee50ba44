// Package metrics exposes Prometheus instrumentation for negotiation
// outcomes: which formats get selected, which failure kinds occur, and how
// long response encoding takes. The collector is optional everywhere it is
// accepted; a nil *Collector is a no-op.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics recorded by the negotiation
// pipeline. Construct it once at startup with NewCollector and share it;
// the underlying prometheus vectors are safe for concurrent use.
type Collector struct {
	negotiations   *prometheus.CounterVec
	failures       *prometheus.CounterVec
	encodeDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with the given
// registerer under the provided namespace. Re-registration of an identical
// collector (e.g. two routers sharing one prometheus registry) is tolerated
// by reusing the already-registered metric rather than failing.
func NewCollector(registerer prometheus.Registerer, namespace string) *Collector {
	if registerer == nil {
		panic("metrics: prometheus registerer cannot be nil")
	}

	negotiations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "negotiate",
		Name:      "negotiations_total",
		Help:      "Number of successful format selections, by selected media type.",
	}, []string{"format"})
	negotiations = registerCounterVec(registerer, negotiations)

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "negotiate",
		Name:      "negotiation_failures_total",
		Help:      "Number of failed exchanges, by failure kind.",
	}, []string{"kind"})
	failures = registerCounterVec(registerer, failures)

	encodeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "negotiate",
		Name:      "encode_duration_seconds",
		Help:      "Time spent re-encoding deferred response payloads.",
		Buckets:   prometheus.DefBuckets,
	})
	encodeDuration = registerHistogram(registerer, encodeDuration)

	return &Collector{
		negotiations:   negotiations,
		failures:       failures,
		encodeDuration: encodeDuration,
	}
}

// registerCounterVec registers a counter vector, reusing an existing
// identical collector when one is already registered.
func registerCounterVec(registerer prometheus.Registerer, cv *prometheus.CounterVec) *prometheus.CounterVec {
	if err := registerer.Register(cv); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return cv
}

// registerHistogram registers a histogram, reusing an existing identical
// collector when one is already registered.
func registerHistogram(registerer prometheus.Registerer, h prometheus.Histogram) prometheus.Histogram {
	if err := registerer.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return h
}

// FormatSelected records a successful phase-1 format selection.
func (c *Collector) FormatSelected(format string) {
	if c == nil {
		return
	}
	c.negotiations.WithLabelValues(format).Inc()
}

// ExchangeFailed records a terminal failure for an exchange.
func (c *Collector) ExchangeFailed(kind string) {
	if c == nil {
		return
	}
	c.failures.WithLabelValues(kind).Inc()
}

// ObserveEncode records the duration of a phase-3 payload encoding.
func (c *Collector) ObserveEncode(d time.Duration) {
	if c == nil {
		return
	}
	c.encodeDuration.Observe(d.Seconds())
}
