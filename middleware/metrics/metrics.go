// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics records Prometheus request metrics for the router.
//
//	reg := prometheus.NewRegistry()
//	r := errmux.New()
//	r.Use(metrics.New(metrics.WithRegisterer(reg)))
//	r.Mux().Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// statusCoder is a capability interface for response writers that track
// the status code. The "code" label is all the collectors need.
type statusCoder interface {
	StatusCode() int
}

type recorder struct {
	http.ResponseWriter
	status int
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *recorder) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Option defines functional options for metrics middleware configuration.
type Option func(*config)

// config holds the configuration for the metrics middleware.
type config struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
	exclude    map[string]struct{}
}

func defaultConfig() *config {
	return &config{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "errmux",
		buckets:    prometheus.DefBuckets,
		exclude:    map[string]struct{}{},
	}
}

// WithRegisterer sets the Prometheus registerer the collectors are
// registered with. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		if reg != nil {
			c.registerer = reg
		}
	}
}

// WithNamespace sets the metric namespace. Defaults to "errmux".
func WithNamespace(ns string) Option {
	return func(c *config) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// WithExcludePaths excludes exact request paths from collection, such as
// the metrics endpoint itself.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.exclude[p] = struct{}{}
		}
	}
}

// New returns a middleware that records request count, duration, and
// in-flight gauge. Collectors are registered once at construction;
// registering the same namespace twice on one registerer panics, as with
// any Prometheus collector.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	factory := promauto.With(cfg.registerer)

	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.namespace,
		Name:      "requests_total",
		Help:      "Requests served, by method and status code.",
	}, []string{"method", "code"})

	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution, by method.",
		Buckets:   cfg.buckets,
	}, []string{"method"})

	inFlight := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.namespace,
		Name:      "requests_in_flight",
		Help:      "Requests currently being served.",
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, skip := cfg.exclude[req.URL.Path]; skip {
				next.ServeHTTP(w, req)
				return
			}

			info, ok := w.(statusCoder)
			if !ok {
				rec := &recorder{ResponseWriter: w}
				info = rec
				w = rec
			}

			inFlight.Inc()
			start := time.Now()
			next.ServeHTTP(w, req)
			elapsed := time.Since(start)
			inFlight.Dec()

			requests.WithLabelValues(req.Method, strconv.Itoa(info.StatusCode())).Inc()
			duration.WithLabelValues(req.Method).Observe(elapsed.Seconds())
		})
	}
}
