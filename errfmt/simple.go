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

// Simple formats errors as plain JSON objects with Content-Type
// "application/json; charset=utf-8": {"error": "message"}, plus "code"
// and "details" keys when the error exposes them.
type Simple struct {
	// StatusResolver overrides status resolution. When nil, the
	// ErrorType interface decides, falling back to 500.
	StatusResolver func(err error) int
}

// NewSimple creates a Simple formatter with default status resolution.
func NewSimple() *Simple {
	return &Simple{}
}

// Format converts an error into a simple JSON response.
func (f *Simple) Format(_ *http.Request, err error) Response {
	body := map[string]any{
		"error": err.Error(),
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		body["details"] = detailed.Details()
	}

	return Response{
		Status:      statusOf(err, f.StatusResolver),
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}
