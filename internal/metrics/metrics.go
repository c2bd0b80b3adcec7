// Package metrics exposes Prometheus instrumentation for the guidance
// solvers, the engagement engine and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so several can live in one process (tests).
type Collector struct {
	registry *prometheus.Registry

	solutions       *prometheus.CounterVec
	simSteps        prometheus.Counter
	engagements     *prometheus.CounterVec
	missDistance    prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		solutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidance_solutions_total",
				Help: "Guidance computations by operation and result",
			},
			[]string{"op", "result"},
		),
		simSteps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sim_steps_total",
				Help: "Integration steps advanced by the engagement engine",
			},
		),
		engagements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sim_engagements_total",
				Help: "Engagements by outcome",
			},
			[]string{"outcome"},
		),
		missDistance: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sim_miss_distance",
				Help:    "Final missile to target distance of finished engagements",
				Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
			},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Time spent processing request",
			},
			[]string{"route"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of requests",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		m.solutions,
		m.simSteps,
		m.engagements,
		m.missDistance,
		m.requestDuration,
		m.requestsTotal,
		collectors.NewGoCollector(),
	)

	return m
}

// RecordSolution counts one guidance call; found is false for no-solution.
func (m *Collector) RecordSolution(op string, found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "none"
	}
	m.solutions.WithLabelValues(op, result).Inc()
}

func (m *Collector) AddSteps(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.simSteps.Add(float64(n))
}

// RecordEngagement counts a finished or aborted engagement. miss is observed
// only for finished ones.
func (m *Collector) RecordEngagement(outcome string, miss float64) {
	if m == nil {
		return
	}
	m.engagements.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFinished {
		m.missDistance.Observe(miss)
	}
}

func (m *Collector) RecordRequest(route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(route, http.StatusText(code)).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Collector) Registry() *prometheus.Registry { return m.registry }

func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

const (
	OutcomeFinished = "finished"
	OutcomeAborted  = "aborted"
	OutcomeTimeout  = "timeout"
)
