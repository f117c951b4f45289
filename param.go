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
	"net/http"

	"github.com/gorilla/mux"
)

// ParamFunc is a route-parameter hook. It runs before the route's
// handlers whenever the matched route carries the registered path
// variable, receiving the variable's value. An error enters the error
// pipeline and stops dispatch; a nil return continues the chain.
type ParamFunc func(w http.ResponseWriter, r *http.Request, value string) error

// paramEntry pairs a path-variable name with its hook. Hooks run in
// declaration order.
type paramEntry struct {
	name string
	fn   ParamFunc
}

type paramRegistry struct {
	entries   []paramEntry
	installed bool
}

func newParamRegistry() *paramRegistry {
	return &paramRegistry{}
}

// Param registers a hook for the named path variable on this Router's
// routes. Hooks are scoped to the Router they are registered on: a group
// declares its own hooks for the variables its routes match, exactly as
// the group owns its own middleware chain.
//
// Example:
//
//	r.Param("id", func(w http.ResponseWriter, req *http.Request, id string) error {
//	    if !validID(id) {
//	        return ErrBadID
//	    }
//	    return nil
//	})
//	r.Get("/users/{id}", getUser)
func (r *Router) Param(name string, fn ParamFunc) *Router {
	if fn == nil {
		panic(ErrNilHandler)
	}
	if !r.params.installed {
		r.delegate.Use(r.paramMiddleware())
		r.params.installed = true
	}
	r.params.entries = append(r.params.entries, paramEntry{name: name, fn: fn})
	return r
}

// paramMiddleware runs the registered hooks for every path variable
// present on the matched route, in declaration order, before the rest of
// the chain. Variables the matched route does not carry are skipped
// silently.
func (r *Router) paramMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			vars := mux.Vars(req)
			if len(vars) == 0 || len(r.params.entries) == 0 {
				next.ServeHTTP(w, req)
				return
			}
			rw := wrapResponseWriter(w)
			for _, e := range r.params.entries {
				value, ok := vars[e.name]
				if !ok {
					continue
				}
				hook := e.fn
				run := func(w http.ResponseWriter, req *http.Request) error {
					return hook(w, req, value)
				}
				if err := invoke(run, rw, req); err != nil {
					r.dispatchError(rw, req, err)
					return
				}
			}
			next.ServeHTTP(rw, req)
		})
	}
}
