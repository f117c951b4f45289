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

// Package accesslog writes one canonical structured log line per request.
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := errmux.New()
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health", "/metrics"),
//	))
package accesslog

import (
	"log/slog"
	"net/http"
	"time"
)

// statusSizer is a capability interface for response writers that track
// status and size. The errmux response writer implements it; anything
// else gets wrapped locally.
type statusSizer interface {
	StatusCode() int
	Size() int64
}

// recorder is the local fallback wrapper used when the upstream writer
// does not expose status and size.
type recorder struct {
	http.ResponseWriter
	status int
	size   int64
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
	n, err := r.ResponseWriter.Write(b)
	r.size += int64(n)
	return n, err
}

func (r *recorder) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *recorder) Size() int64 { return r.size }

// Option defines functional options for accesslog middleware configuration.
type Option func(*config)

// config holds the configuration for the accesslog middleware.
type config struct {
	logger        *slog.Logger
	exclude       map[string]struct{}
	slowThreshold time.Duration
}

func defaultConfig() *config {
	return &config{
		exclude: map[string]struct{}{},
	}
}

// WithLogger sets the structured logger. Without one the middleware is a
// no-op passthrough.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExcludePaths suppresses log lines for exact request paths, such as
// health and metrics endpoints.
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.exclude[p] = struct{}{}
		}
	}
}

// WithSlowThreshold logs requests slower than d at warn level instead of
// info. Zero disables the distinction.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) {
		c.slowThreshold = d
	}
}

// New returns the access-log middleware.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		if cfg.logger == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, skip := cfg.exclude[req.URL.Path]; skip {
				next.ServeHTTP(w, req)
				return
			}

			info, ok := w.(statusSizer)
			if !ok {
				rec := &recorder{ResponseWriter: w}
				info = rec
				w = rec
			}

			start := time.Now()
			next.ServeHTTP(w, req)
			elapsed := time.Since(start)

			level := slog.LevelInfo
			if cfg.slowThreshold > 0 && elapsed > cfg.slowThreshold {
				level = slog.LevelWarn
			}

			cfg.logger.LogAttrs(req.Context(), level, "request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", info.StatusCode()),
				slog.Int64("size", info.Size()),
				slog.Duration("duration", elapsed),
				slog.String("remote", req.RemoteAddr),
			)
		})
	}
}
