// Copyright 2025 The Pathwise Authors
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

package recovery

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"pathwise.dev/middleware"
	"pathwise.dev/middleware/requestid"
	"pathwise.dev/problem"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(v)
	})
}

func TestRecovery_PanicBecomesProblem(t *testing.T) {
	t.Parallel()

	h := middleware.Chain(panicking("boom"),
		requestid.New(requestid.WithGenerator(func() string { return "req-1" })),
		New(),
	)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, problem.ContentType, w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, problem.TypeInternal, body["type"])
	assert.Equal(t, "req-1", body["error_id"])
	assert.Equal(t, "/users/7", body["instance"])
	assert.NotContains(t, body, "detail", "panic values must not leak to clients")
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	h := New()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecovery_Logs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		wantStack bool
	}{
		{name: "with stack", wantStack: true},
		{name: "without stack", opts: []Option{WithStackTrace(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			opts := append([]Option{WithLogger(logger), WithStackSize(256)}, tt.opts...)

			w := httptest.NewRecorder()
			New(opts...)(panicking(errors.New("db down"))).
				ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "panic recovered", entry["msg"])
			assert.Equal(t, "ERROR", entry["level"])
			assert.Equal(t, "POST", entry["http.method"])
			assert.Equal(t, "/orders", entry["http.target"])

			stack, ok := entry["stack"].(string)
			assert.Equal(t, tt.wantStack, ok)
			if tt.wantStack {
				assert.LessOrEqual(t, len(stack), 256)
			}
		})
	}
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	var got any
	h := New(WithHandler(func(w http.ResponseWriter, _ *http.Request, err any) {
		got = err
		w.WriteHeader(http.StatusServiceUnavailable)
	}))(panicking(42))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 42, got)
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	h := New()(panicking(http.ErrAbortHandler))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovery_MarksSpan(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	traced := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tp.Tracer("test").Start(r.Context(), "request")
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	h := middleware.Chain(panicking(errors.New("nil map")), traced, New())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotEmpty(t, spans[0].Events(), "error should be recorded as an exception event")

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "true", attrs["exception.escaped"])
	assert.Equal(t, "nil map", attrs["exception.message"])
}
