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

package logging

import (
	"context"
	"log/slog"

	"pathwise.dev/router"
	"pathwise.dev/telemetry/semconv"
)

// Diagnostics returns a router diagnostic handler that writes events to
// logger. Published tables are logged at info, other events at debug.
func Diagnostics(logger *slog.Logger) router.DiagnosticHandler {
	return router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
		level := slog.LevelDebug
		switch e.Kind {
		case router.DiagRoutesPublished:
			level = slog.LevelInfo
		case router.DiagHighParamCount, router.DiagConditionalDuplicate:
			level = slog.LevelWarn
		}
		if !logger.Enabled(context.Background(), level) {
			return
		}

		attrs := make([]slog.Attr, 0, len(e.Fields)+1)
		attrs = append(attrs, slog.String("kind", string(e.Kind)))
		for k, v := range e.Fields {
			attrs = append(attrs, slog.Any(k, v))
		}
		logger.LogAttrs(context.Background(), level, e.Message, attrs...)
	})
}

// Resolutions returns a router observer that logs every resolution at debug
// level. Intended for development, where the per-request cost is acceptable.
func Resolutions(logger *slog.Logger) router.Observer {
	return router.ObserverFunc(func(ctx context.Context, ev router.ResolveEvent) {
		if !logger.Enabled(ctx, slog.LevelDebug) {
			return
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "route resolved",
			slog.String(semconv.HTTPMethod, ev.Method),
			slog.String(semconv.HTTPTarget, ev.Path),
			slog.String(semconv.RouteOutcome, ev.Result.Outcome.String()),
			slog.String(semconv.HTTPRoute, ev.Result.Pattern()),
			slog.Duration("duration", ev.Duration),
		)
	})
}
