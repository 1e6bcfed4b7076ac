// Package observability exposes Prometheus metrics for trip planning.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Plan request outcomes used as the result label
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// PlanCollector holds the metrics recorded for every plan request.
type PlanCollector struct {
	gatherer prometheus.Gatherer

	Requests *prometheus.CounterVec
	Duration prometheus.Histogram
	Segments prometheus.Histogram
}

// NewPlanCollector registers plan metrics against reg. A nil reg uses the
// default registry. Registering twice returns the existing collectors.
func NewPlanCollector(reg prometheus.Registerer) (*PlanCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tachoplan_plan_requests_total",
		Help: "Trip plan requests by result.",
	}, []string{"result"})
	requests, err := registerCounterVec(reg, requests, "tachoplan_plan_requests_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tachoplan_plan_duration_seconds",
		Help:    "Time spent planning a trip, validation included.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	duration, err = registerHistogram(reg, duration, "tachoplan_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	segments := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tachoplan_plan_segments",
		Help:    "Number of segments in planned trips.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50},
	})
	segments, err = registerHistogram(reg, segments, "tachoplan_plan_segments")
	if err != nil {
		return nil, err
	}

	return &PlanCollector{
		gatherer: gatherer,
		Requests: requests,
		Duration: duration,
		Segments: segments,
	}, nil
}

// Gatherer returns the gatherer the collector's metrics are exposed through.
func (c *PlanCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObservePlan records one plan request. segments is ignored unless the
// result is ResultOK.
func (c *PlanCollector) ObservePlan(result string, d time.Duration, segments int) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(result).Inc()
	c.Duration.Observe(d.Seconds())
	if result == ResultOK {
		c.Segments.Observe(float64(segments))
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *PlanCollector) Handler() http.Handler {
	g := c.Gatherer()
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
