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
	"log/slog"

	"rivaas.dev/errmux/errfmt"
)

// WithStrictSlash forwards the strict-slash toggle verbatim to the
// delegate. When true, a route registered for "/path" answers "/path/"
// with a redirect to the registered form (and vice versa). The default is
// the delegate's relaxed behavior: the two forms are distinct.
func WithStrictSlash(value bool) Option {
	return func(r *Router) {
		r.delegate.StrictSlash(value)
	}
}

// WithSkipClean forwards the path-cleaning toggle verbatim to the
// delegate. When true, the request path is matched as received:
// "/a//b" is not reduced to "/a/b". Defaults to false.
func WithSkipClean(value bool) Option {
	return func(r *Router) {
		r.delegate.SkipClean(value)
	}
}

// WithUseEncodedPath tells the delegate to match against the encoded
// request path. With the default of false, "/a%2Fb" matches like "/a/b".
func WithUseEncodedPath(value bool) Option {
	return func(r *Router) {
		if value {
			r.delegate.UseEncodedPath()
		}
	}
}

// WithErrorHandler replaces the whole error stage. The handler receives
// every failure a fallible handler produces, exactly once per failed
// invocation, with the error value unmodified (panics arrive wrapped in
// *PanicError). The default stage logs and renders through the configured
// formatter.
func WithErrorHandler(fn ErrorHandlerFunc) Option {
	return func(r *Router) {
		r.onError = fn
	}
}

// WithFormatter replaces only the response rendering of the default error
// stage. Ignored when WithErrorHandler is also set.
//
// Example:
//
//	r := errmux.New(errmux.WithFormatter(errfmt.NewRFC9457("https://api.example.com/problems")))
func WithFormatter(f errfmt.Formatter) Option {
	return func(r *Router) {
		if f != nil {
			r.formatter = f
		}
	}
}

// WithLogger sets the logger the default error stage writes its one line
// to. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNotFound installs a fallible handler in the delegate's not-found
// slot. The delegate invokes it for unmatched paths; failures take the
// usual pipeline.
func WithNotFound(fn HandlerFunc) Option {
	return func(r *Router) {
		r.delegate.NotFoundHandler = r.adapt(fn)
	}
}

// WithMethodNotAllowed installs a fallible handler in the delegate's
// method-not-allowed slot.
func WithMethodNotAllowed(fn HandlerFunc) Option {
	return func(r *Router) {
		r.delegate.MethodNotAllowedHandler = r.adapt(fn)
	}
}
