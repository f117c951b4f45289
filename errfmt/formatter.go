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

package errfmt

import (
	"errors"
	"net/http"
)

// Formatter defines how errors become HTTP responses. Implementations
// only compute the response components; the caller writes them.
//
// Example:
//
//	resp := formatter.Format(req, err)
//	w.Header().Set("Content-Type", resp.ContentType)
//	w.WriteHeader(resp.Status)
//	json.NewEncoder(w).Encode(resp.Body)
type Formatter interface {
	// Format converts an error into response components. The request is
	// available for instance URIs and similar request-derived fields.
	Format(req *http.Request, err error) Response
}

// Response holds the components of a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, ready for JSON marshaling.
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType lets a domain error declare its own HTTP status code.
//
// Example:
//
//	func (e NotFoundError) HTTPStatus() int { return http.StatusNotFound }
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorCode lets a domain error expose a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// ErrorDetails lets a domain error expose structured detail data, such as
// per-field validation messages.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// WithStatus wraps err with an explicit HTTP status code; the result
// implements ErrorType. A nil err yields the status text as the message.
//
// Example:
//
//	return errfmt.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// statusOf resolves the HTTP status for err: resolver first, then the
// ErrorType interface, then 500.
func statusOf(err error, resolver func(error) int) int {
	if resolver != nil {
		return resolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
