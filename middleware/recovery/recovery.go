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

// Package recovery turns handler panics into 500 problem responses instead
// of dropping the connection.
package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pathwise.dev/middleware/requestid"
	"pathwise.dev/problem"
	"pathwise.dev/telemetry/semconv"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     *slog.Logger
	formatter  problem.Formatter
	handler    func(w http.ResponseWriter, r *http.Request, err any)
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     slog.New(slog.DiscardHandler),
		formatter: problem.Formatter{
			ErrorID: func(r *http.Request) string { return requestid.Get(r.Context()) },
		},
	}
}

// WithStackTrace enables or disables stack capture. Default: true.
func WithStackTrace(enabled bool) Option {
	return func(c *config) {
		c.stackTrace = enabled
	}
}

// WithStackSize caps the logged stack in bytes. Default: 4KB.
func WithStackSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.stackSize = size
		}
	}
}

// WithLogger sets the logger panics are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormatter sets the formatter for the default 500 response.
func WithFormatter(f problem.Formatter) Option {
	return func(c *config) {
		c.formatter = f
	}
}

// WithHandler replaces the default response. The handler must write the
// full response.
func WithHandler(fn func(w http.ResponseWriter, r *http.Request, err any)) Option {
	return func(c *config) {
		c.handler = fn
	}
}

// New returns middleware that recovers panics from the wrapped handler. It
// should be installed early in the chain so it covers everything after it.
//
//	h = middleware.Chain(h,
//	    requestid.New(),
//	    recovery.New(recovery.WithLogger(logger)),
//	)
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				cfg.recovered(w, r, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func (c *config) recovered(w http.ResponseWriter, r *http.Request, rec any) {
	ctx := r.Context()
	markSpan(ctx, rec)

	attrs := []any{
		slog.Any("panic", rec),
		slog.String(semconv.HTTPMethod, r.Method),
		slog.String(semconv.HTTPTarget, r.URL.Path),
	}
	if id := requestid.Get(ctx); id != "" {
		attrs = append(attrs, slog.String(semconv.RequestID, id))
	}
	if c.stackTrace {
		stack := debug.Stack()
		if len(stack) > c.stackSize {
			stack = stack[:c.stackSize]
		}
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	c.logger.ErrorContext(ctx, "panic recovered", attrs...)

	if c.handler != nil {
		c.handler(w, r, rec)
		return
	}
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", rec)
	}
	problem.Write(w, c.formatter.Format(r, err))
}

// markSpan records the panic on the active span, if any.
func markSpan(ctx context.Context, rec any) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	span.SetStatus(codes.Error, "panic recovered")
	span.SetAttributes(
		attribute.Bool("exception.escaped", true),
		attribute.String("exception.type", fmt.Sprintf("%T", rec)),
		attribute.String("exception.message", fmt.Sprintf("%v", rec)),
	)
	if err, ok := rec.(error); ok {
		span.RecordError(err)
	}
}
