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

// Package errmux decorates a gorilla/mux router with error-aware handlers.
//
// The package does not implement routing. It holds a delegate *mux.Router,
// exposes the familiar registration surface (Get, Post, Use, Param, ...),
// and upgrades fallible handlers (functions that return an error) so that
// every failure reaches a single, configurable error pipeline instead of
// being silently dropped or duplicated across handlers. Plain net/http
// handlers pass through to the delegate completely untouched.
//
// # Handler Classification
//
// Registration methods accept handlers of several shapes and classify each
// argument independently:
//
//   - errmux.HandlerFunc (or an unnamed func(http.ResponseWriter,
//     *http.Request) error): adapted. A non-nil return enters the error
//     pipeline exactly once. A panic inside the handler is captured,
//     wrapped in *PanicError, and enters the same pipeline.
//   - http.Handler, http.HandlerFunc, func(http.ResponseWriter,
//     *http.Request): forwarded to the delegate as-is. The adapter adds
//     nothing and observes nothing.
//
// The boundary is deliberately narrow: a user-defined named function type
// is never adapted implicitly, even when its underlying signature matches
// HandlerFunc. Convert explicitly to opt in:
//
//	type myHandler func(http.ResponseWriter, *http.Request) error
//
//	r.Get("/a", errmux.HandlerFunc(h)) // adapted
//	r.Get("/b", h)                     // rejected at registration
//
// This mirrors the delegate's own philosophy of failing loudly at
// registration time rather than guessing at request time.
//
// # Constructor Pattern
//
// New() returns *Router (no error) because construction cannot fail: it
// allocates the delegate and applies options. Misuse, such as a nil
// handler or an unsupported handler type, panics at registration time,
// the same convention net/http applies to ServeMux.Handle.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//	    "rivaas.dev/errmux"
//	)
//
//	func main() {
//	    r := errmux.New()
//
//	    r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) error {
//	        user, err := loadUser(mux.Vars(req)["id"])
//	        if err != nil {
//	            return err // reaches the error pipeline, exactly once
//	        }
//	        return json.NewEncoder(w).Encode(user)
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// # Error Pipeline
//
// There is exactly one failure kind: handler failure, covering returned
// errors and captured panics. The adapter forwards the failure value
// unmodified to the configured ErrorHandlerFunc and never retries,
// classifies, or suppresses it. The default stage logs through slog and
// renders the error with an errfmt.Formatter (a {"error": "..."} JSON
// object with status 500 unless the error declares its own status via
// errfmt.ErrorType). Replace it wholesale with WithErrorHandler, or only
// the rendering with WithFormatter.
//
// # Concurrency
//
// Registration (verbs, Use, Param, options) must complete before the
// router starts serving, matching the delegate's contract. After that the
// Router is read-only and safe for unlimited concurrent use; the adapter
// keeps no state between in-flight requests.
package errmux
