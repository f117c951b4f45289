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
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/errmux/errfmt"
)

func okHandler(w http.ResponseWriter, _ *http.Request) error {
	_, _ = w.Write([]byte("ok"))
	return nil
}

func TestWithStrictSlash(t *testing.T) {
	t.Parallel()

	strict := New(WithStrictSlash(true))
	strict.Get("/exact", HandlerFunc(okHandler))

	rec := doRequest(strict, http.MethodGet, "/exact/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/exact", rec.Header().Get("Location"))

	relaxed := New()
	relaxed.Get("/exact", HandlerFunc(okHandler))

	// The delegate's default: the two forms are distinct.
	assert.Equal(t, http.StatusNotFound, doRequest(relaxed, http.MethodGet, "/exact/").Code)
	assert.Equal(t, http.StatusOK, doRequest(relaxed, http.MethodGet, "/exact").Code)
}

func TestWithSkipClean(t *testing.T) {
	t.Parallel()

	cleaned := New()
	cleaned.Get("/a/b", HandlerFunc(okHandler))
	assert.Equal(t, http.StatusMovedPermanently, doRequest(cleaned, http.MethodGet, "/a//b").Code)

	skipped := New(WithSkipClean(true))
	skipped.Get("/a/b", HandlerFunc(okHandler))
	assert.Equal(t, http.StatusNotFound, doRequest(skipped, http.MethodGet, "/a//b").Code)
}

func TestWithUseEncodedPath(t *testing.T) {
	t.Parallel()

	encoded := New(WithUseEncodedPath(true))
	encoded.Get("/files/{name}", HandlerFunc(okHandler))
	assert.Equal(t, http.StatusOK, doRequest(encoded, http.MethodGet, "/files/a%2Fb").Code)

	decoded := New()
	decoded.Get("/files/{name}", HandlerFunc(okHandler))
	assert.Equal(t, http.StatusNotFound, doRequest(decoded, http.MethodGet, "/files/a%2Fb").Code)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := New(WithLogger(logger))
	r.Get("/fail", func(http.ResponseWriter, *http.Request) error {
		return errors.New("logged failure")
	})

	doRequest(r, http.MethodGet, "/fail")

	out := buf.String()
	assert.Contains(t, out, "handler error")
	assert.Contains(t, out, "logged failure")
	assert.Contains(t, out, "/fail")
}

func TestDefaultLoggerIsSilent(t *testing.T) {
	t.Parallel()

	require.NotNil(t, NoopLogger())
	for _, level := range []slog.Level{
		slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError,
	} {
		assert.False(t, NoopLogger().Enabled(t.Context(), level), level)
	}
}

func TestWithFormatter(t *testing.T) {
	t.Parallel()

	r := New(WithFormatter(errfmt.NewRFC9457("https://errors.example.com")))
	r.Get("/fail", func(http.ResponseWriter, *http.Request) error {
		return errors.New("problem")
	})

	rec := doRequest(r, http.MethodGet, "/fail")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decodeJSON(t, rec)
	assert.Equal(t, "problem", body["detail"])
	assert.Equal(t, "/fail", body["instance"])
}

func TestWithFormatterStatusFromError(t *testing.T) {
	t.Parallel()

	r := New()
	r.Get("/missing", func(http.ResponseWriter, *http.Request) error {
		return errfmt.WithStatus(errors.New("no such thing"), http.StatusNotFound)
	})

	rec := doRequest(r, http.MethodGet, "/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "no such thing"}, decodeJSON(t, rec))
}

func TestWithNotFound(t *testing.T) {
	t.Parallel()

	r := New(WithNotFound(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("custom 404"))
		return nil
	}))

	rec := doRequest(r, http.MethodGet, "/nowhere")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "custom 404", rec.Body.String())
}

func TestWithNotFoundFailureTakesPipeline(t *testing.T) {
	t.Parallel()

	var got error
	r := New(
		WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
		WithNotFound(func(http.ResponseWriter, *http.Request) error {
			return errors.New("404 stage failed")
		}),
	)

	rec := doRequest(r, http.MethodGet, "/nowhere")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.EqualError(t, got, "404 stage failed")
}

func TestWithMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := New(WithMethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("nope"))
		return nil
	}))
	r.Get("/only-get", HandlerFunc(okHandler))

	rec := doRequest(r, http.MethodPost, "/only-get")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "nope", rec.Body.String())
}

func TestWithErrorHandlerReplacesDefaultStage(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	r := New(WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		assert.Same(t, sentinel, err)
		http.Error(w, "custom stage", http.StatusBadGateway)
	}))
	r.Get("/fail", func(http.ResponseWriter, *http.Request) error { return sentinel })

	rec := doRequest(r, http.MethodGet, "/fail")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "custom stage")
}
