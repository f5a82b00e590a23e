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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"pathwise.dev/router"
)

// DefaultDurationBuckets are histogram boundaries for resolution latency in
// seconds. Resolution is an in-memory operation, so the buckets start at
// one microsecond.
var DefaultDurationBuckets = []float64{
	0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005,
	0.0001, 0.00025, 0.0005, 0.001, 0.005, 0.01,
}

// meterName is the instrumentation scope of the recorder.
const meterName = "pathwise.dev/metrics"

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to logger.
// A nil logger discards all events.
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

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider uses Prometheus exporter for metrics (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses OTLP HTTP exporter for metrics.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses stdout exporter for metrics (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder records resolution metrics. All methods are safe for concurrent
// use.
//
// The global OpenTelemetry meter provider is left alone unless
// [WithGlobalMeterProvider] is given, so several recorders can coexist.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	resolveCount    metric.Int64Counter
	resolveDuration metric.Float64Histogram
	routesPublished metric.Int64Gauge

	durationBuckets  []float64
	validationErrors []error
	exportInterval   time.Duration
	stdoutWriter     io.Writer

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	serviceAttrs   []attribute.KeyValue

	provider            Provider
	providerSetCount    int
	isShuttingDown      atomic.Bool
	customMeterProvider bool
	registerGlobal      bool
}

// New creates a [Recorder]. It returns an error when the configuration is
// invalid or the provider cannot be initialized.
func New(opts ...Option) (*Recorder, error) {
	recorder := &Recorder{
		serviceName:     "pathwise",
		serviceVersion:  "dev",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		eventHandler:    func(Event) {},
	}

	for _, opt := range opts {
		opt(recorder)
	}

	if err := recorder.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	recorder.serviceAttrs = []attribute.KeyValue{
		attribute.String("service.name", recorder.serviceName),
		attribute.String("service.version", recorder.serviceVersion),
	}

	if err := recorder.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return recorder, nil
}

// MustNew creates a [Recorder] and panics on error.
func MustNew(opts ...Option) *Recorder {
	recorder, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}
	return recorder
}

func (r *Recorder) validate() error {
	if len(r.validationErrors) > 0 {
		return errors.Join(r.validationErrors...)
	}
	if r.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if r.customMeterProvider && r.meterProvider == nil {
		return errors.New("custom meter provider is nil")
	}

	switch r.provider {
	case PrometheusProvider, StdoutProvider:
	case OTLPProvider:
		if r.otlpEndpoint == "" {
			r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
			r.otlpEndpoint = "http://localhost:4318"
		}
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	return nil
}

// initializeMetrics creates the instruments.
func (r *Recorder) initializeMetrics() error {
	var err error

	r.resolveCount, err = r.meter.Int64Counter(
		"pathwise.resolve.requests",
		metric.WithDescription("Number of route resolutions"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resolve counter: %w", err)
	}

	r.resolveDuration, err = r.meter.Float64Histogram(
		"pathwise.resolve.duration",
		metric.WithDescription("Duration of route resolutions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create resolve duration histogram: %w", err)
	}

	r.routesPublished, err = r.meter.Int64Gauge(
		"pathwise.routes.published",
		metric.WithDescription("Number of routes in the published route table"),
	)
	if err != nil {
		return fmt.Errorf("failed to create published routes gauge: %w", err)
	}

	return nil
}

// OnResolve records one resolution. It implements [router.Observer].
func (r *Recorder) OnResolve(ctx context.Context, ev router.ResolveEvent) {
	if r.isShuttingDown.Load() {
		return
	}

	attrs := metric.WithAttributes(append(r.serviceAttrs,
		attribute.String("outcome", ev.Result.Outcome.String()),
		attribute.String("method", ev.Method),
		attribute.String("route", ev.Result.Pattern()),
	)...)
	r.resolveCount.Add(ctx, 1, attrs)
	r.resolveDuration.Record(ctx, ev.Duration.Seconds(), attrs)
}

// OnDiagnostic tracks the published route count. It implements
// [router.DiagnosticHandler]; other events are ignored.
func (r *Recorder) OnDiagnostic(e router.DiagnosticEvent) {
	if e.Kind != router.DiagRoutesPublished || r.isShuttingDown.Load() {
		return
	}
	n, ok := e.Fields["routes"].(int)
	if !ok {
		return
	}
	r.routesPublished.Record(context.Background(), int64(n), metric.WithAttributes(r.serviceAttrs...))
}

// Handler returns the Prometheus scrape handler. For other providers it
// returns a handler that answers 404.
func (r *Recorder) Handler() http.Handler {
	if r.prometheusHandler == nil {
		return http.NotFoundHandler()
	}
	return r.prometheusHandler
}

// Provider returns the configured provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name attribute value.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush exports pending data for push providers. It is a no-op for
// Prometheus and for providers managed by the caller.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customMeterProvider {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	return nil
}

// Shutdown flushes and shuts down the meter provider. Providers passed via
// [WithMeterProvider] are left to the caller. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		r.emitDebug("Skipping shutdown of custom meter provider (managed by user)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	r.emitDebug("Meter provider shut down")
	return nil
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
}
