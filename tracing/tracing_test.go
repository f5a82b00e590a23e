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

package tracing

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"pathwise.dev/router"
)

func newRecordingTracer(t *testing.T, opts ...Option) (*Tracer, *tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer := MustNew(append([]Option{WithTracerProvider(tp)}, opts...)...)
	return tracer, sr, tp
}

func newTestRouter(t *testing.T, tracer *Tracer) *router.Router {
	t.Helper()

	r := router.MustNew(router.WithObserver(tracer))
	require.NoError(t, r.Handle("GET", "/orders/{id:int}", nil, router.Named("order")))
	require.NoError(t, r.Handle("PUT", "/orders/{id:int}", nil))
	r.Build()
	return r
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracer_MatchedSpan(t *testing.T) {
	t.Parallel()

	tracer, sr, tp := newRecordingTracer(t)
	r := newTestRouter(t, tracer)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "GET")
	res := r.ResolveContext(ctx, "GET", "/orders/42")
	parent.End()
	require.True(t, res.Matched())

	spans := sr.Ended()
	require.Len(t, spans, 2)

	resolve, server := spans[0], spans[1]
	assert.Equal(t, SpanName, resolve.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), resolve.Parent().SpanID())
	assert.Equal(t, codes.Ok, resolve.Status().Code)
	assert.False(t, resolve.EndTime().Before(resolve.StartTime()))

	got := attrs(resolve)
	assert.Equal(t, "GET", got["http.method"].AsString())
	assert.Equal(t, "/orders/42", got["http.target"].AsString())
	assert.Equal(t, "/orders/{id:int}", got["http.route"].AsString())
	assert.Equal(t, "matched", got[OutcomeKey].AsString())
	assert.Equal(t, "order", got[NameKey].AsString())
	assert.Equal(t, "42", got[ParamPrefix+"id"].AsString())

	assert.Equal(t, "/orders/{id:int}", attrs(server)["http.route"].AsString(), "parent span gets the route")
}

func TestTracer_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	tracer, sr, _ := newRecordingTracer(t)
	r := newTestRouter(t, tracer)

	r.Resolve("DELETE", "/orders/1")

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, []string{"GET", "HEAD", "PUT"}, attrs(spans[0])[AllowedKey].AsStringSlice())
	assert.False(t, spans[0].Parent().IsValid())
}

func TestTracer_NotFound(t *testing.T) {
	t.Parallel()

	tracer, sr, _ := newRecordingTracer(t)
	r := newTestRouter(t, tracer)

	r.Resolve("GET", "/missing")

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "not_found", attrs(spans[0])[OutcomeKey].AsString())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "no route", spans[0].Events()[0].Name)
}

func TestTracer_WithoutParams(t *testing.T) {
	t.Parallel()

	tracer, sr, _ := newRecordingTracer(t, WithoutParams())
	r := newTestRouter(t, tracer)

	r.Resolve("GET", "/orders/9")

	spans := sr.Ended()
	require.Len(t, spans, 1)
	_, ok := attrs(spans[0])[ParamPrefix+"id"]
	assert.False(t, ok)
}

func TestTracer_ExtractParentsOnRemoteTrace(t *testing.T) {
	t.Parallel()

	tracer, sr, _ := newRecordingTracer(t)
	r := newTestRouter(t, tracer)

	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	req := httptest.NewRequest(http.MethodGet, "/orders/3", nil)
	req.Header.Set("traceparent", traceparent)

	r.ResolveRequest(req.WithContext(tracer.Extract(req.Context(), req.Header)))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.True(t, spans[0].Parent().IsRemote())

	out := http.Header{}
	tracer.Inject(trace.ContextWithSpanContext(context.Background(), spans[0].SpanContext()), out)
	assert.Contains(t, out.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestTracer_Stdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracer := MustNew(WithStdout(&buf), WithServiceName("edge"))
	assert.Equal(t, StdoutProvider, tracer.Provider())

	r := newTestRouter(t, tracer)
	r.Resolve("GET", "/orders/5")

	require.NoError(t, tracer.ForceFlush(context.Background()))
	require.NoError(t, tracer.Shutdown(context.Background()))
	require.NoError(t, tracer.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), SpanName)
	assert.Contains(t, buf.String(), "edge")

	// Spans after shutdown are dropped.
	before := buf.Len()
	r.Resolve("GET", "/orders/6")
	assert.Equal(t, before, buf.Len())
}

func TestTracer_SampleRateZero(t *testing.T) {
	t.Parallel()

	tracer := MustNew(WithSampleRate(0))
	r := newTestRouter(t, tracer)

	assert.NotPanics(t, func() { r.Resolve("GET", "/orders/1") })
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNew_Providers(t *testing.T) {
	t.Parallel()

	grpc, err := New(WithOTLP("localhost:4317", OTLPInsecure()))
	require.NoError(t, err)
	assert.Equal(t, OTLPProvider, grpc.Provider())

	h, err := New(WithOTLPHTTP("http://localhost:4318"))
	require.NoError(t, err)
	assert.Equal(t, OTLPHTTPProvider, h.Provider())
	assert.NotNil(t, h.TracerProvider())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{"conflicting providers", []Option{WithNoop(), WithStdout(nil)}},
		{"empty service name", []Option{WithServiceName("")}},
		{"nil tracer provider", []Option{WithTracerProvider(nil)}},
		{"sample rate above one", []Option{WithSampleRate(1.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.Error(t, err)
		})
	}

	assert.Panics(t, func() { MustNew(WithSampleRate(-1)) })
}
