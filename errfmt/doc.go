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

// Package errfmt turns handler failures into HTTP response components.
//
// A Formatter converts an error into a Response (status, content type,
// body) without writing anything itself, so it works with any HTTP
// stack. Two formatters are provided: Simple renders a plain JSON object
// ({"error": "..."}), RFC9457 renders application/problem+json per
// RFC 9457.
//
// Domain errors steer formatting through three optional interfaces:
// ErrorType declares the HTTP status, ErrorCode a machine-readable code,
// ErrorDetails structured detail data. Errors are matched through
// errors.As, so wrapped errors participate.
package errfmt
