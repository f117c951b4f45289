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

package errmux

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"rivaas.dev/errmux/errfmt"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
// DiscardHandler reports Enabled=false for every level, so disabled logging
// costs nothing on the error path.
var noopLogger = slog.New(slog.DiscardHandler)

// NoopLogger returns the singleton no-op logger. It is the default target
// of the error pipeline's log line when WithLogger is not supplied.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Option defines functional options for router configuration.
type Option func(*Router)

// Router decorates a delegate *mux.Router with error-aware registration.
// It implements the registration surface itself and forwards every call to
// the delegate after adapting fallible handler arguments; it never touches
// the delegate's matching, dispatch, or anything else it does not own.
//
// All registration must happen before the router starts serving. After
// that the Router is read-only and safe for concurrent use.
//
// Example:
//
//	r := errmux.New(errmux.WithStrictSlash(true))
//	r.Get("/users/{id}", getUser).Post("/users/{id}", updateUser)
//	http.ListenAndServe(":8080", r)
type Router struct {
	delegate  *mux.Router
	onError   ErrorHandlerFunc
	formatter errfmt.Formatter
	logger    *slog.Logger
	params    *paramRegistry
}

// New creates a Router around a fresh delegate. Construction cannot fail;
// options that reach the delegate (WithStrictSlash, WithSkipClean,
// WithUseEncodedPath) are forwarded verbatim to it.
func New(opts ...Option) *Router {
	r := &Router{
		delegate:  mux.NewRouter(),
		formatter: errfmt.NewSimple(),
		logger:    noopLogger,
		params:    newParamRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = r.defaultErrorHandler
	}
	return r
}

// Mux returns the delegate router. Use it to mount the routes anywhere a
// *mux.Router is expected, or to reach delegate features this decorator
// does not re-export. Routes registered directly on the delegate bypass
// the error pipeline.
func (r *Router) Mux() *mux.Router {
	return r.delegate
}

// ServeHTTP implements http.Handler by forwarding to the delegate.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.delegate.ServeHTTP(w, req)
}

// Get registers handlers for GET requests on path.
// When several handlers are given, the leading ones run as pre-handlers
// in order; the last is the route handler. Returns the Router for
// chaining.
func (r *Router) Get(path string, handlers ...any) *Router {
	return r.Handle(http.MethodGet, path, handlers...)
}

// Post registers handlers for POST requests on path.
func (r *Router) Post(path string, handlers ...any) *Router {
	return r.Handle(http.MethodPost, path, handlers...)
}

// Put registers handlers for PUT requests on path.
func (r *Router) Put(path string, handlers ...any) *Router {
	return r.Handle(http.MethodPut, path, handlers...)
}

// Delete registers handlers for DELETE requests on path.
func (r *Router) Delete(path string, handlers ...any) *Router {
	return r.Handle(http.MethodDelete, path, handlers...)
}

// Patch registers handlers for PATCH requests on path.
func (r *Router) Patch(path string, handlers ...any) *Router {
	return r.Handle(http.MethodPatch, path, handlers...)
}

// Head registers handlers for HEAD requests on path.
func (r *Router) Head(path string, handlers ...any) *Router {
	return r.Handle(http.MethodHead, path, handlers...)
}

// Options registers handlers for OPTIONS requests on path.
func (r *Router) Options(path string, handlers ...any) *Router {
	return r.Handle(http.MethodOptions, path, handlers...)
}

// Any registers handlers for every HTTP method on path.
func (r *Router) Any(path string, handlers ...any) *Router {
	r.delegate.Handle(path, r.chain(handlers))
	return r
}

// Handle registers handlers for an arbitrary method on path. The method
// string is forwarded verbatim to the delegate, so non-standard verbs work
// exactly as they do on *mux.Router directly.
func (r *Router) Handle(method, path string, handlers ...any) *Router {
	r.delegate.Handle(path, r.chain(handlers)).Methods(method)
	return r
}

// Use appends middleware to the delegate's chain. Conventional middleware
// (mux.MiddlewareFunc, func(http.Handler) http.Handler) is forwarded
// untouched; a fallible handler runs as a pre-handler for every matched
// request, entering the error pipeline and stopping the chain on failure.
func (r *Router) Use(middleware ...any) *Router {
	for _, m := range middleware {
		r.delegate.Use(r.asMiddleware(m))
	}
	return r
}

// Group creates a sub-Router under prefix via the delegate's subrouter
// mechanism. The group shares the parent's error pipeline, formatter, and
// logger. Path variables from the prefix pattern are always visible to
// the group's handlers; the delegate merges them unconditionally.
//
// Example:
//
//	api := r.Group("/tenants/{tenant}")
//	api.Get("/files/{id}", getFile) // sees both "tenant" and "id"
func (r *Router) Group(prefix string, middleware ...any) *Router {
	g := &Router{
		delegate:  r.delegate.PathPrefix(prefix).Subrouter(),
		onError:   r.onError,
		formatter: r.formatter,
		logger:    r.logger,
		params:    newParamRegistry(),
	}
	for _, m := range middleware {
		g.delegate.Use(g.asMiddleware(m))
	}
	return g
}

// chain composes leading pre-handlers around the final handler. Each
// argument is classified independently; see asHandler and asMiddleware
// for the accepted shapes.
func (r *Router) chain(handlers []any) http.Handler {
	if len(handlers) == 0 {
		panic(ErrNoHandler)
	}
	h := r.asHandler(handlers[len(handlers)-1])
	for i := len(handlers) - 2; i >= 0; i-- {
		h = r.asMiddleware(handlers[i])(h)
	}
	return h
}

// defaultErrorHandler is the built-in error stage: one structured log
// line, then a formatted response. If the handler already started a
// response, writing a second status line would corrupt the stream, so
// only the log line remains.
func (r *Router) defaultErrorHandler(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.LogAttrs(req.Context(), slog.LevelError, "handler error",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Any("error", err),
	)

	if info, ok := w.(ResponseInfo); ok && info.Written() {
		return
	}

	resp := r.formatter.Format(req, err)
	w.Header().Set("Content-Type", resp.ContentType)
	for k, vals := range resp.Headers {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	if resp.Body != nil {
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}
