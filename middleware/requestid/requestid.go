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

// Package requestid attaches a unique request ID to every request passing
// through the router, for log correlation and distributed tracing.
//
// The ID is taken from the configured header when the client supplies one
// (unless disabled), generated otherwise, stored on the request context,
// and echoed on the response header.
//
//	r := errmux.New()
//	r.Use(requestid.New())
//
//	r.Get("/x", func(w http.ResponseWriter, req *http.Request) error {
//	    logger.InfoContext(req.Context(), "handling", "request_id", requestid.FromContext(req.Context()))
//	    return nil
//	})
package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type contextKey struct{}

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

// config holds the configuration for the requestid middleware.
type config struct {
	// headerName is the header carrying the request ID.
	headerName string

	// generator produces new request IDs.
	generator func() string

	// allowClientID accepts IDs supplied by clients.
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 generates a UUID v7 request ID. UUID v7 is time-ordered
// and lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is a thread-safe entropy source for ULID generation with
// monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

// generateULID generates a ULID request ID: time-ordered and a compact
// 26 characters.
func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that ensures every request carries an ID.
//
// Basic usage (UUID v7 by default):
//
//	r.Use(requestid.New())
//
// Using ULID (shorter, 26 characters):
//
//	r.Use(requestid.New(requestid.WithULID()))
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := ""
			if cfg.allowClientID {
				id = req.Header.Get(cfg.headerName)
			}
			if id == "" {
				id = cfg.generator()
			}

			w.Header().Set(cfg.headerName, id)
			ctx := context.WithValue(req.Context(), contextKey{}, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// FromContext returns the request ID stored by the middleware, or "" when
// none is present.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithHeader sets the header name carrying the request ID.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.headerName = name
		}
	}
}

// WithULID switches generation to ULIDs.
func WithULID() Option {
	return func(c *config) {
		c.generator = generateULID
	}
}

// WithGenerator sets a custom ID generator.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generator = fn
		}
	}
}

// WithoutClientID ignores IDs supplied by clients; a fresh ID is always
// generated.
func WithoutClientID() Option {
	return func(c *config) {
		c.allowClientID = false
	}
}
