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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"pathwise.dev/router"
	keys "pathwise.dev/telemetry/semconv"
)

// SpanName is the name of resolution spans.
const SpanName = "route.resolve"

// tracerName is the instrumentation scope of the tracer.
const tracerName = "pathwise.dev/tracing"

// Attribute keys set on resolution spans besides the semantic conventions.
const (
	OutcomeKey = attribute.Key(keys.RouteOutcome)
	NameKey    = attribute.Key(keys.RouteName)
	ModuleKey  = attribute.Key(keys.RouteModule)
	AllowedKey = attribute.Key(keys.RouteAllowed)
)

// ParamPrefix prefixes the raw capture attributes of matched routes.
const ParamPrefix = keys.RouteParamPrefix

// Provider represents the available tracing providers.
type Provider string

const (
	// NoopProvider creates spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider writes spans as JSON.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	EventError EventType = iota
	EventWarning
	EventInfo
	EventDebug
)

// Event is an internal operational event from the tracing package.
type Event struct {
	Type    EventType
	Message string
	Args    []any
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs to logger. A nil
// logger discards events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Tracer records resolution spans. It is safe for concurrent use.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	propagator     propagation.TextMapPropagator
	eventHandler   EventHandler

	provider       Provider
	serviceName    string
	serviceVersion string
	sampleRate     float64
	otlpEndpoint   string
	otlpInsecure   bool
	stdoutWriter   io.Writer
	recordParams   bool

	providerSetCount     int
	validationErrors     []error
	customTracerProvider bool
	registerGlobal       bool
	isShuttingDown       atomic.Bool
}

// New creates a [Tracer]. Exporters connect lazily, so New does not block
// on an unreachable collector.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:       NoopProvider,
		serviceName:    "pathwise",
		serviceVersion: "dev",
		sampleRate:     1.0,
		recordParams:   true,
		eventHandler:   func(Event) {},
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := t.initializeProvider(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return t, nil
}

// MustNew creates a [Tracer] and panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}
	return t
}

func (t *Tracer) validate() error {
	if len(t.validationErrors) > 0 {
		return errors.Join(t.validationErrors...)
	}
	if t.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithStdout, WithOTLP, WithOTLPHTTP or WithNoop can be used")
	}
	if t.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if t.customTracerProvider && t.tracerProvider == nil {
		return errors.New("custom tracer provider is nil")
	}
	return nil
}

// OnResolve records one resolution span. It implements [router.Observer].
func (t *Tracer) OnResolve(ctx context.Context, ev router.ResolveEvent) {
	if t.isShuttingDown.Load() {
		return
	}

	res := ev.Result
	if res.Outcome == router.Matched {
		if parent := trace.SpanFromContext(ctx); parent.IsRecording() {
			parent.SetAttributes(semconv.HTTPRoute(res.Route.Path))
		}
	}

	_, span := t.tracer.Start(ctx, SpanName,
		trace.WithTimestamp(ev.Start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			semconv.HTTPMethod(ev.Method),
			semconv.HTTPTarget(ev.Path),
			OutcomeKey.String(res.Outcome.String()),
		),
	)
	if span.IsRecording() {
		t.annotate(span, res)
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))
}

// annotate adds the outcome specific attributes.
func (t *Tracer) annotate(span trace.Span, res router.Result) {
	switch res.Outcome {
	case router.Matched:
		attrs := []attribute.KeyValue{semconv.HTTPRoute(res.Route.Path)}
		if res.Route.Name != "" {
			attrs = append(attrs, NameKey.String(res.Route.Name))
		}
		if res.Route.ModulePath != "" {
			attrs = append(attrs, ModuleKey.String(res.Route.ModulePath))
		}
		if t.recordParams {
			for name, raw := range res.Raw {
				attrs = append(attrs, attribute.String(ParamPrefix+name, raw))
			}
		}
		span.SetAttributes(attrs...)
		span.SetStatus(codes.Ok, "")
	case router.MethodNotAllowed:
		span.SetAttributes(AllowedKey.StringSlice(res.Allowed))
		span.SetStatus(codes.Error, "method not allowed")
	case router.NotFound:
		span.AddEvent("no route")
	}
}

// Extract returns ctx carrying the remote span context found in header.
// Passing the returned context to the router parents resolution spans on
// the caller's trace.
func (t *Tracer) Extract(ctx context.Context, header http.Header) context.Context {
	return t.propagator.Extract(ctx, propagation.HeaderCarrier(header))
}

// Inject writes the span context of ctx into header.
func (t *Tracer) Inject(ctx context.Context, header http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(header))
}

// TracerProvider returns the provider spans are created with.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// ForceFlush exports pending spans of a built-in provider.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.sdkProvider == nil || t.isShuttingDown.Load() {
		return nil
	}
	if err := t.sdkProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("tracer force flush: %w", err)
	}
	return nil
}

// Shutdown flushes and stops a built-in provider. Providers passed with
// [WithTracerProvider] are left to the caller. Shutdown is idempotent.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	t.emitDebug("Tracer provider shut down")
	return nil
}

func (t *Tracer) emitDebug(msg string, args ...any) {
	t.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
}
