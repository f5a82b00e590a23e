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

package router

import (
	"log/slog"

	"pathwise.dev/router/constraint"
	"pathwise.dev/router/route"
)

// WithCaseSensitive makes literal segments match with exact case.
// By default literals compare case-insensitively.
func WithCaseSensitive(enabled bool) Option {
	return func(r *Router) {
		r.caseSensitive = enabled
	}
}

// WithConstraints sets the constraint registry used to compile route
// templates. The registry is frozen when the router is first built.
//
// Example:
//
//	reg := constraint.Default()
//	_ = reg.Register(constraint.NewFunc("even", 0, 0, isEven))
//	r := router.MustNew(router.WithConstraints(reg))
func WithConstraints(registry *constraint.Registry) Option {
	return func(r *Router) {
		r.registry = registry
	}
}

// WithConstraint registers an additional constraint matcher on the router's
// registry. Registration errors are reported by New.
func WithConstraint(m constraint.Matcher) Option {
	return func(r *Router) {
		r.extra = append(r.extra, m)
	}
}

// WithAllowDuplicates permits several unconditional routes with the same
// method and template. The first registered one wins at resolution time.
func WithAllowDuplicates() Option {
	return func(r *Router) {
		r.allowDuplicates = true
	}
}

// WithLogger sets the logger for registration and reload events.
// Registrations are logged at debug level, reloads at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithObserver adds an observer notified after every resolution.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithRoutes registers routes as part of construction. Registration errors
// are reported by New.
func WithRoutes(descs ...route.Description) Option {
	return func(r *Router) {
		r.initial = append(r.initial, descs...)
	}
}
