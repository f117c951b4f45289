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
	"errors"
	"fmt"
)

var (
	// ErrNilHandler indicates that a nil handler was passed to a registration method.
	ErrNilHandler = errors.New("errmux: nil handler")

	// ErrNoHandler indicates that a registration method was called without a final handler.
	ErrNoHandler = errors.New("errmux: registration requires at least one handler")

	// ErrResponseWriterNotHijacker indicates that the underlying ResponseWriter
	// does not implement the http.Hijacker interface.
	ErrResponseWriterNotHijacker = errors.New("errmux: response writer does not implement http.Hijacker")
)

// PanicError wraps a panic recovered inside a fallible handler so the
// failure can travel through the error pipeline like a returned error.
// The original panic value and the stack captured at recovery time are
// preserved for the error stage to inspect.
type PanicError struct {
	// Value is the value the handler panicked with.
	Value any

	// Stack is the goroutine stack captured at recovery time.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error, so the error
// stage can match it with errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
