// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the application metrics under one namespace.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	rateLimited   prometheus.Counter
	rateClients   prometheus.Gauge
	summaries     *prometheus.CounterVec
	rejected      prometheus.Counter
	registrations *prometheus.CounterVec
}

// New creates the collectors and registers them, with the Go runtime and
// process collectors, on a private registry.
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		rateClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_clients",
			Help:      "Clients currently tracked by the rate limiter",
		}),
		summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summaries_total",
				Help:      "Summaries computed by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_records_total",
			Help:      "Stored transaction records rejected by validation",
		}),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_registered_total",
				Help:      "Transactions registered by type",
			},
			[]string{"type"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpLatency,
		c.rateLimited,
		c.rateClients,
		c.summaries,
		c.rejected,
		c.registrations,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Register adds extra collectors, such as a database stats collector.
func (c *Collector) Register(cs ...prometheus.Collector) error {
	for _, col := range cs {
		if err := c.registry.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordHTTP(route, method string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(d.Seconds())
}

func (c *Collector) RecordRateLimited() {
	if c == nil {
		return
	}
	c.rateLimited.Inc()
}

func (c *Collector) SetRateLimitClients(n int) {
	if c == nil {
		return
	}
	c.rateClients.Set(float64(n))
}

// RecordSummary counts a dashboard or resume computation. outcome is one of
// "ok", "empty" or "error".
func (c *Collector) RecordSummary(kind, outcome string) {
	if c == nil {
		return
	}
	c.summaries.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) RecordRejected(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.rejected.Add(float64(n))
}

func (c *Collector) RecordRegistration(txType string) {
	if c == nil {
		return
	}
	c.registrations.WithLabelValues(txType).Inc()
}
