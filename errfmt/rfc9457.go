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

// RFC9457 formats errors as RFC 9457 Problem Details with Content-Type
// "application/problem+json".
type RFC9457 struct {
	// BaseURL is prepended to error codes to form problem type URIs,
	// e.g. "https://api.example.com/problems" + "/invalid-id".
	BaseURL string

	// StatusResolver overrides status resolution. When nil, the
	// ErrorType interface decides, falling back to 500.
	StatusResolver func(err error) int

	// TypeResolver overrides problem-type resolution. When nil, the
	// ErrorCode interface decides, falling back to "about:blank".
	TypeResolver func(err error) string
}

// NewRFC9457 creates an RFC9457 formatter. baseURL may be empty, in which
// case error codes are used as problem types verbatim.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// ProblemDetail is the RFC 9457 response body.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Code and Errors are extension members populated from the
	// ErrorCode and ErrorDetails interfaces when present.
	Code   string `json:"code,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

// Format converts an error into an RFC 9457 Problem Details response.
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := statusOf(err, f.StatusResolver)

	p := ProblemDetail{
		Type:   f.problemType(err),
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Code = coded.Code()
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Errors = detailed.Details()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

// problemType resolves the problem type URI for err.
func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}
	var coded ErrorCode
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + coded.Code()
		}
		return coded.Code()
	}
	return "about:blank"
}
