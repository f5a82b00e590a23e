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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pathwise.dev/router/constraint"
	"pathwise.dev/router/route"
)

// noopLogger is the logger used when none is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Option defines functional options for router configuration.
type Option func(*Router)

// Router resolves a method and path against a table of routes.
//
// A Router has two phases. During the build phase routes are registered with
// Add or Handle from a single goroutine. Build publishes the table and
// freezes the constraint registry. From then on Resolve and its variants are
// safe for concurrent use, and Reload atomically replaces the whole table
// without blocking in-flight resolutions.
type Router struct {
	registry        *constraint.Registry
	extra           []constraint.Matcher
	caseSensitive   bool
	allowDuplicates bool
	logger          *slog.Logger
	diagnostics     DiagnosticHandler
	observers       []Observer
	initial         []route.Description

	mu      sync.Mutex // Serializes writers; readers only load current
	staging *builder
	current atomic.Pointer[table]
}

// New creates a router with the given options.
//
// Example:
//
//	r, err := router.New(
//	    router.WithLogger(logger),
//	    router.WithRoutes(route.Description{Method: "GET", Path: "/users/{id:int}"}),
//	)
//	if err != nil {
//	    return err
//	}
//	r.Build()
//	res := r.Resolve("GET", "/users/42")
func New(opts ...Option) (*Router, error) {
	r := &Router{}

	for _, opt := range opts {
		opt(r)
	}

	if r.registry == nil {
		r.registry = constraint.Default()
	}
	if r.logger == nil {
		r.logger = noopLogger
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	r.staging = r.newBuilder()
	if err := r.Add(r.initial...); err != nil {
		return nil, err
	}
	r.initial = nil

	return r, nil
}

// MustNew creates a router and panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// validate registers extra constraints, which fails on a frozen registry or
// a conflicting name.
func (r *Router) validate() error {
	for _, m := range r.extra {
		if err := r.registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the constraint registry used by the router.
func (r *Router) Registry() *constraint.Registry {
	return r.registry
}

// Add registers routes. It fails with ErrRouterFrozen once the router is
// built. On error, routes of the same call registered before the failing
// one remain registered.
func (r *Router) Add(descs ...route.Description) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.staging == nil {
		return ErrRouterFrozen
	}
	for _, d := range descs {
		if err := r.staging.add(d); err != nil {
			return err
		}
	}
	return nil
}

// RouteOption customizes a route registered with Handle.
type RouteOption func(*route.Description)

// Named sets the route name used by Render.
func Named(name string) RouteOption {
	return func(d *route.Description) { d.Name = name }
}

// When sets the route condition.
func When(cond route.Condition) RouteOption {
	return func(d *route.Description) { d.Condition = cond }
}

// RequireWildcardValue makes a trailing wildcard reject an empty remainder.
func RequireWildcardValue() RouteOption {
	return func(d *route.Description) { d.RequireWildcardValue = true }
}

// Handle registers a single route with metadata, typically a handler.
func (r *Router) Handle(method, path string, metadata any, opts ...RouteOption) error {
	d := route.Description{Method: method, Path: path, Metadata: metadata}
	for _, opt := range opts {
		opt(&d)
	}
	return r.Add(d)
}

// Build publishes the registered routes and ends the build phase. Calling
// Build more than once has no effect. Resolving an unbuilt router builds it.
func (r *Router) Build() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buildLocked()
}

func (r *Router) buildLocked() *table {
	if t := r.current.Load(); t != nil {
		return t
	}
	r.registry.Freeze()
	t := r.staging.table()
	r.staging = nil
	r.publish(t)
	return t
}

// Reload replaces the route table with descs. The new table is built off to
// the side and swapped in atomically, so concurrent resolutions see either
// the old or the new table. On error the current table is kept.
func (r *Router) Reload(descs []route.Description) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Freeze()
	b := r.newBuilder()
	for _, d := range descs {
		if err := b.add(d); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}
	t := b.table()
	if prev := r.current.Load(); prev != nil {
		t.generation = prev.generation + 1
	}
	r.staging = nil
	r.publish(t)
	r.logger.Info("routes reloaded", "routes", t.trie.Len(), "generation", t.generation)
	return nil
}

func (r *Router) publish(t *table) {
	r.current.Store(t)
	r.emit(DiagRoutesPublished, "route table published", map[string]any{
		"routes":     t.trie.Len(),
		"generation": t.generation,
	})
}

// snapshot returns the published table, building the router on first use.
func (r *Router) snapshot() *table {
	if t := r.current.Load(); t != nil {
		return t
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buildLocked()
}

// Generation returns the number of reloads applied to the published table.
func (r *Router) Generation() uint64 {
	return r.snapshot().generation
}

// Resolve finds the route for method and path. Conditions of candidate
// routes receive a minimal request carrying only the method and path.
func (r *Router) Resolve(method, path string) Result {
	return r.resolve(context.Background(), method, path, nil)
}

// ResolveContext is like Resolve and passes ctx to observers and conditions.
func (r *Router) ResolveContext(ctx context.Context, method, path string) Result {
	return r.resolve(ctx, method, path, nil)
}

// ResolveRequest finds the route for req. Conditions receive req itself.
func (r *Router) ResolveRequest(req *http.Request) Result {
	return r.resolve(req.Context(), req.Method, req.URL.Path, req)
}

func (r *Router) resolve(ctx context.Context, method, path string, req *http.Request) Result {
	var start time.Time
	if len(r.observers) > 0 {
		start = time.Now()
	}

	res := r.snapshot().resolve(ctx, method, path, req)

	if len(r.observers) > 0 {
		ev := ResolveEvent{
			Method:   method,
			Path:     path,
			Result:   res,
			Start:    start,
			Duration: time.Since(start),
		}
		for _, o := range r.observers {
			o.OnResolve(ctx, ev)
		}
	}
	return res
}

// Render builds a path for the route registered under name.
// See [route.Template.Render] for how params are formatted.
func (r *Router) Render(name string, params map[string]any) (string, error) {
	t := r.snapshot()
	tmpl, ok := t.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return tmpl.Render(params)
}

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	Name      string   `json:"name,omitempty"`
	Module    string   `json:"module,omitempty"`
	Params    []string `json:"params,omitempty"`
	Regex     bool     `json:"regex,omitempty"`
	Condition bool     `json:"condition,omitempty"`
}

// Routes returns the published routes in matching precedence order.
func (r *Router) Routes() []RouteInfo {
	t := r.snapshot()
	out := make([]RouteInfo, 0, t.trie.Len())
	t.trie.Walk(func(d *route.Description, tmpl *route.Template) bool {
		out = append(out, RouteInfo{
			Method:    d.Method,
			Path:      d.Path,
			Name:      d.Name,
			Module:    d.ModulePath,
			Params:    tmpl.Params(),
			Regex:     tmpl.IsRegex(),
			Condition: d.Condition != nil,
		})
		return true
	})
	return out
}

// RouteExists reports whether a route with method and template path is
// published. The template must be written exactly as registered.
func (r *Router) RouteExists(method, path string) bool {
	method = strings.ToUpper(method)
	for _, info := range r.Routes() {
		if info.Method == method && info.Path == path {
			return true
		}
	}
	return false
}

// table is an immutable published route table.
type table struct {
	trie       *Trie
	named      map[string]*route.Template
	generation uint64
}

func (t *table) resolve(ctx context.Context, method, path string, req *http.Request) Result {
	candidates := t.trie.Match(path)
	if len(candidates) == 0 {
		return Result{Outcome: NotFound, Path: path}
	}

	method = strings.ToUpper(method)
	want := method
	if method == http.MethodHead && !hasMethod(candidates, http.MethodHead) {
		want = http.MethodGet
	}

	methodMatched := false
	for _, c := range candidates {
		if c.Route.Method != want {
			continue
		}
		methodMatched = true

		if c.Route.Condition != nil {
			if req == nil {
				req = minimalRequest(ctx, method, path)
			}
			if !c.Route.Condition(req) {
				continue
			}
		}

		return Result{
			Outcome:  Matched,
			Route:    c.Route,
			Template: c.Template,
			Params:   c.Params,
			Raw:      c.Raw,
			Path:     path,
		}
	}

	if methodMatched {
		// Every route for this method declined the request.
		return Result{Outcome: NotFound, Path: path}
	}
	return Result{Outcome: MethodNotAllowed, Path: path, Allowed: allowedMethods(candidates)}
}

func hasMethod(candidates []Candidate, method string) bool {
	for _, c := range candidates {
		if c.Route.Method == method {
			return true
		}
	}
	return false
}

// allowedMethods returns the sorted union of candidate methods. HEAD is
// implied by GET.
func allowedMethods(candidates []Candidate) []string {
	methods := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		methods = append(methods, c.Route.Method)
		if c.Route.Method == http.MethodGet {
			methods = append(methods, http.MethodHead)
		}
	}
	slices.Sort(methods)
	return slices.Compact(methods)
}

// minimalRequest is handed to conditions when resolving without a request.
func minimalRequest(ctx context.Context, method, path string) *http.Request {
	req := &http.Request{
		Method:     method,
		URL:        &url.URL{Path: path},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
		RequestURI: path,
	}
	return req.WithContext(ctx)
}
