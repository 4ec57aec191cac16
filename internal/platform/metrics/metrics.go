// Package metrics holds the Prometheus collectors zhkh exports on /metrics
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zhkh"

// Metrics is a private registry plus the collectors registered on it
// a nil *Metrics is valid and records nothing
type Metrics struct {
	reg *prometheus.Registry

	ClassifyTotal      *prometheus.CounterVec
	ClassifyFallback   *prometheus.CounterVec
	ClassifyDuration   *prometheus.HistogramVec
	ComplaintsSubmit   *prometheus.CounterVec
	ComplaintsDone     prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestSeconds *prometheus.HistogramVec
}

// New builds a registry with Go and process collectors and the zhkh collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		ClassifyTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_total",
			Help:      "Classifications by producing strategy and resulting category",
		}, []string{"strategy", "category"}),
		ClassifyFallback: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_fallback_total",
			Help:      "Remote classifications replaced by the keyword rules, by reason",
		}, []string{"reason"}),
		ClassifyDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time spent classifying one complaint",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"strategy"}),
		ComplaintsSubmit: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_submitted_total",
			Help:      "Complaint submissions by outcome",
		}, []string{"outcome"}),
		ComplaintsDone: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_processed_total",
			Help:      "Complaints marked processed",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Classified records one classification
func (m *Metrics) Classified(strategy, category string, took time.Duration) {
	if m == nil {
		return
	}
	m.ClassifyTotal.WithLabelValues(strategy, category).Inc()
	m.ClassifyDuration.WithLabelValues(strategy).Observe(took.Seconds())
}

// FellBack records one fallback from the remote strategy to the rules
func (m *Metrics) FellBack(reason string) {
	if m == nil {
		return
	}
	m.ClassifyFallback.WithLabelValues(reason).Inc()
}

// Submitted records a submission outcome: accepted, invalid or failed
func (m *Metrics) Submitted(outcome string) {
	if m == nil {
		return
	}
	m.ComplaintsSubmit.WithLabelValues(outcome).Inc()
}

// Processed records a complaint flipped to processed
func (m *Metrics) Processed() {
	if m == nil {
		return
	}
	m.ComplaintsDone.Inc()
}

// ObserveHTTP matches the access log Observe hook
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
