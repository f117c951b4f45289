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
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc is a fallible HTTP handler. A non-nil return value is
// forwarded to the router's error pipeline exactly once; a nil return
// means the handler has taken full responsibility for the response.
//
// Example:
//
//	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) error {
//	    user, err := store.Load(mux.Vars(req)["id"])
//	    if err != nil {
//	        return err
//	    }
//	    return json.NewEncoder(w).Encode(user)
//	})
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ErrorHandlerFunc is the error pipeline's entry point. It receives every
// failure a fallible handler produces, exactly once per failed invocation.
// The err value arrives unmodified; panics arrive wrapped in *PanicError.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// adapt converts a fallible handler into a plain http.Handler for the
// delegate. The returned handler invokes fn with the same request and a
// status-tracking response writer, then forwards any failure to the error
// pipeline. A handler that succeeds is left alone: the adapter writes
// nothing and calls nothing on its behalf.
func (r *Router) adapt(fn HandlerFunc) http.Handler {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rw := wrapResponseWriter(w)
		if err := invoke(fn, rw, req); err != nil {
			r.dispatchError(rw, req, err)
		}
	})
}

// invoke runs fn and converts a panic into a *PanicError so that
// "synchronous throws" take the same path as returned errors.
// http.ErrAbortHandler keeps its net/http meaning and is re-panicked.
func invoke(fn HandlerFunc, w http.ResponseWriter, req *http.Request) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if v == http.ErrAbortHandler {
			panic(v)
		}
		err = &PanicError{Value: v, Stack: debug.Stack()}
	}()
	return fn(w, req)
}

// dispatchError forwards a handler failure to the error pipeline. When a
// trace span is recording on the request context, the failure is recorded
// on it first so traces and responses tell the same story.
func (r *Router) dispatchError(w http.ResponseWriter, req *http.Request, err error) {
	if span := trace.SpanFromContext(req.Context()); span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.onError(w, req, err)
}

// asHandler normalizes a registration argument into an http.Handler.
// Fallible forms are adapted; net/http forms pass through untouched. The
// type switch is intentionally exact: a named function type whose
// underlying signature matches HandlerFunc is rejected rather than
// silently adapted, keeping the adapted/unadapted boundary explicit.
func (r *Router) asHandler(v any) http.Handler {
	switch h := v.(type) {
	case nil:
		panic(ErrNilHandler)
	case HandlerFunc:
		return r.adapt(h)
	case func(http.ResponseWriter, *http.Request) error:
		return r.adapt(h)
	case http.Handler:
		// Covers http.HandlerFunc as well. Forwarded byte-for-byte.
		return h
	case func(http.ResponseWriter, *http.Request):
		return http.HandlerFunc(h)
	default:
		panic(fmt.Sprintf("errmux: unsupported handler type %T (convert to errmux.HandlerFunc, http.Handler, or http.HandlerFunc)", v))
	}
}

// asMiddleware normalizes a Use argument or a leading pre-handler into a
// delegate middleware. Fallible handlers become pre-handlers: a nil
// return continues the chain, an error enters the pipeline and stops
// dispatch. Conventional middleware shapes are forwarded untouched.
func (r *Router) asMiddleware(v any) mux.MiddlewareFunc {
	switch m := v.(type) {
	case nil:
		panic(ErrNilHandler)
	case mux.MiddlewareFunc:
		return m
	case func(http.Handler) http.Handler:
		return m
	case HandlerFunc:
		return r.preHandler(m)
	case func(http.ResponseWriter, *http.Request) error:
		return r.preHandler(m)
	default:
		panic(fmt.Sprintf("errmux: unsupported middleware type %T (use mux.MiddlewareFunc, func(http.Handler) http.Handler, or errmux.HandlerFunc)", v))
	}
}

// preHandler runs a fallible handler ahead of the rest of the chain.
func (r *Router) preHandler(fn HandlerFunc) mux.MiddlewareFunc {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rw := wrapResponseWriter(w)
			if err := invoke(fn, rw, req); err != nil {
				r.dispatchError(rw, req, err)
				return
			}
			next.ServeHTTP(rw, req)
		})
	}
}
