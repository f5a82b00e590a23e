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
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathwise.dev/router/constraint"
	"pathwise.dev/router/route"
)

func get(path string) route.Description {
	return route.Description{Method: http.MethodGet, Path: path}
}

func newBuilt(t *testing.T, opts ...Option) *Router {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	r.Build()
	return r
}

func TestResolve_LiteralPrecedence(t *testing.T) {
	t.Parallel()

	orders := map[string][]route.Description{
		"literal first":   {get("/users/me"), get("/users/{id}")},
		"parameter first": {get("/users/{id}"), get("/users/me")},
	}

	for name, routes := range orders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := newBuilt(t, WithRoutes(routes...))

			res := r.Resolve("GET", "/users/me")
			require.Equal(t, Matched, res.Outcome)
			assert.Equal(t, "/users/me", res.Route.Path)
			assert.Empty(t, res.Params)

			res = r.Resolve("GET", "/users/42")
			require.Equal(t, Matched, res.Outcome)
			assert.Equal(t, "/users/{id}", res.Route.Path)
			assert.Equal(t, "42", res.Params["id"])
		})
	}
}

func TestResolve_ConstraintFallThrough(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/items/{slug}"), get("/items/{id:int}")))

	res := r.Resolve("GET", "/items/42")
	require.True(t, res.Matched())
	assert.Equal(t, "/items/{id:int}", res.Route.Path)
	assert.Equal(t, int64(42), res.Params["id"])

	res = r.Resolve("GET", "/items/abc")
	require.True(t, res.Matched())
	assert.Equal(t, "/items/{slug}", res.Route.Path)
	assert.Equal(t, "abc", res.Params["slug"])
}

func TestResolve_WildcardGreedy(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/files/*")))

	res := r.Resolve("GET", "/files/a/b/c")
	require.True(t, res.Matched())
	assert.Equal(t, "a/b/c", res.Params[route.WildcardName])

	res = r.Resolve("GET", "/files")
	require.True(t, res.Matched())
	assert.Equal(t, "", res.Params[route.WildcardName])
}

func TestResolve_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(
		get("/x"),
		route.Description{Method: "delete", Path: "/x"},
	))

	res := r.Resolve("POST", "/x")
	assert.Equal(t, MethodNotAllowed, res.Outcome)
	assert.Equal(t, []string{"DELETE", "GET", "HEAD"}, res.Allowed)
	assert.Nil(t, res.Route)
	assert.Equal(t, "_method_not_allowed", res.Pattern())

	res = r.Resolve("GET", "/y")
	assert.Equal(t, NotFound, res.Outcome)
	assert.Empty(t, res.Allowed)
	assert.Equal(t, "_not_found", res.Pattern())
}

func TestResolve_MethodCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(route.Description{Method: "Post", Path: "/x"}))

	for _, m := range []string{"POST", "post", "pOsT"} {
		assert.True(t, r.Resolve(m, "/x").Matched(), m)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/a/{id:int}/{rest*}"), get("/a/{name}")))

	for _, path := range []string{"/a/1/x/y", "/a/b", "/nope"} {
		first := r.Resolve("GET", path)
		second := r.Resolve("GET", path)
		assert.Equal(t, first, second, path)
	}
}

func TestResolve_RenderRoundTrip(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(route.Description{
		Method: "GET",
		Path:   "/order/{year:int}/{month:int}/{sku:alpha}",
		Name:   "order",
	}))

	res := r.Resolve("GET", "/order/2024/03/ABC")
	require.True(t, res.Matched())
	assert.Equal(t, Params{"year": int64(2024), "month": int64(3), "sku": "ABC"}, res.Params)

	// Raw captures reproduce the original text, leading zeros included.
	raw := make(map[string]any, len(res.Raw))
	for k, v := range res.Raw {
		raw[k] = v
	}
	path, err := r.Render("order", raw)
	require.NoError(t, err)
	assert.Equal(t, "/order/2024/03/ABC", path)

	// Typed values render canonically and resolve to the same captures.
	path, err = r.Render("order", res.Params)
	require.NoError(t, err)
	assert.Equal(t, "/order/2024/3/ABC", path)
	assert.Equal(t, res.Params, r.Resolve("GET", path).Params)

	assert.False(t, r.Resolve("GET", "/order/2024/03/AB1").Matched(), "alpha rejects digits")

	_, err = r.Render("missing", nil)
	require.ErrorIs(t, err, ErrRouteNotFound)
}

func TestResolve_RangeAndLengthBoundaries(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/n/{n:range(1,10)}"), get("/s/{s:length(2,4)}")))

	tests := []struct {
		path    string
		matched bool
	}{
		{"/n/1", true},
		{"/n/10", true},
		{"/n/0", false},
		{"/n/11", false},
		{"/s/a", false},
		{"/s/ab", true},
		{"/s/abcd", true},
		{"/s/abcde", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.matched, r.Resolve("GET", tt.path).Matched())
		})
	}
}

func TestResolve_ConditionShortCircuit(t *testing.T) {
	t.Parallel()

	yes := route.Description{Method: "GET", Path: "/c", Name: "yes", Condition: func(*http.Request) bool { return true }}
	no := route.Description{Method: "GET", Path: "/c", Name: "no", Condition: func(*http.Request) bool { return false }}

	for name, routes := range map[string][]route.Description{
		"true first":  {yes, no},
		"false first": {no, yes},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := newBuilt(t, WithRoutes(routes...))
			res := r.Resolve("GET", "/c")
			require.True(t, res.Matched())
			assert.Equal(t, "yes", res.Route.Name)
		})
	}
}

func TestResolve_ConditionsAllFalse(t *testing.T) {
	t.Parallel()

	calls := 0
	r := newBuilt(t, WithRoutes(
		route.Description{Method: "GET", Path: "/c", Condition: func(*http.Request) bool { calls++; return false }},
		route.Description{Method: "POST", Path: "/c"},
	))

	res := r.Resolve("GET", "/c")
	assert.Equal(t, NotFound, res.Outcome)
	assert.Equal(t, 1, calls)

	// Conditions are not evaluated for other methods.
	res = r.Resolve("POST", "/c")
	assert.True(t, res.Matched())
	assert.Equal(t, 1, calls)
}

func TestResolveRequest_ConditionSeesRequest(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(
		route.Description{
			Method:    "GET",
			Path:      "/api/{v}",
			Name:      "beta",
			Condition: func(req *http.Request) bool { return req.Header.Get("X-Beta") == "1" },
		},
		route.Description{Method: "GET", Path: "/api/{v}", Name: "stable"},
	))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	assert.Equal(t, "stable", r.ResolveRequest(req).Route.Name)

	req.Header.Set("X-Beta", "1")
	assert.Equal(t, "beta", r.ResolveRequest(req).Route.Name)

	// Without a request, conditions see only method and path.
	res := r.Resolve("GET", "/api/users")
	assert.Equal(t, "stable", res.Route.Name)
}

func TestResolve_HeadFallsBackToGet(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/a"), get("/b"), route.Description{Method: "HEAD", Path: "/b", Name: "head-b"}))

	res := r.Resolve("HEAD", "/a")
	require.True(t, res.Matched())
	assert.Equal(t, "GET", res.Route.Method)

	res = r.Resolve("HEAD", "/b")
	require.True(t, res.Matched())
	assert.Equal(t, "head-b", res.Route.Name)
}

func TestResolve_TypedParams(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	r := newBuilt(t, WithRoutes(get("/t/{id:guid}/{price:decimal}/{on:bool}/{v:version}/{d:datetime(2006-01-02)}")))

	res := r.Resolve("GET", fmt.Sprintf("/t/%s/19.99/TRUE/1.2.3/2024-02-29", id))
	require.True(t, res.Matched())

	gotID, err := res.Params.UUID("id")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	price, err := res.Params.Decimal("price")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(price))

	on, err := res.Params.Bool("on")
	require.NoError(t, err)
	assert.True(t, on)

	v, err := res.Params.Version("v")
	require.NoError(t, err)
	assert.Equal(t, constraint.Version{Major: 1, Minor: 2, Build: 3, Revision: -1}, v)

	d, err := res.Params.Time("d")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)
}

func TestResolve_LiteralsFoldCaseByDefault(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/Users")))
	assert.True(t, r.Resolve("GET", "/users").Matched())
	assert.True(t, r.Resolve("GET", "/USERS").Matched())

	strict := newBuilt(t, WithCaseSensitive(true), WithRoutes(get("/Users")))
	assert.False(t, strict.Resolve("GET", "/users").Matched())
}

func TestResolve_CaseSensitivityInParallel(t *testing.T) {
	t.Parallel()

	for _, sensitive := range []bool{false, true} {
		t.Run(fmt.Sprintf("sensitive=%v", sensitive), func(t *testing.T) {
			t.Parallel()

			r := newBuilt(t, WithCaseSensitive(sensitive), WithRoutes(get("/Admin/Users")))
			assert.True(t, r.Resolve("GET", "/Admin/Users").Matched())
			assert.Equal(t, !sensitive, r.Resolve("GET", "/admin/users").Matched())
		})
	}
}

func TestAdd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate route", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		require.NoError(t, r.Add(get("/a/{x}")))
		require.ErrorIs(t, r.Add(get("/A/{y}")), ErrDuplicateRoute)
	})

	t.Run("duplicates allowed", func(t *testing.T) {
		t.Parallel()
		r := MustNew(WithAllowDuplicates())
		require.NoError(t, r.Add(get("/a"), get("/a")))
	})

	t.Run("conditional duplicate", func(t *testing.T) {
		t.Parallel()
		var kinds []DiagnosticKind
		r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
			kinds = append(kinds, e.Kind)
		})))
		cond := route.Description{Method: "GET", Path: "/a", Condition: func(*http.Request) bool { return true }}
		require.NoError(t, r.Add(get("/a"), cond))
		assert.Contains(t, kinds, DiagConditionalDuplicate)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		require.NoError(t, r.Add(route.Description{Method: "GET", Path: "/a", Name: "n"}))
		require.ErrorIs(t, r.Add(route.Description{Method: "GET", Path: "/b", Name: "n"}), ErrDuplicateRouteName)
	})

	t.Run("invalid method", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		require.ErrorIs(t, r.Add(route.Description{Method: "GE T", Path: "/a"}), route.ErrInvalidMethod)
		require.ErrorIs(t, r.Add(route.Description{Path: "/a"}), route.ErrInvalidMethod)
	})

	t.Run("unknown constraint", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		require.ErrorIs(t, r.Add(get("/a/{x:nope}")), constraint.ErrUnknownConstraint)
	})

	t.Run("frozen", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		r.Build()
		require.ErrorIs(t, r.Add(get("/a")), ErrRouterFrozen)
	})

	t.Run("new reports route errors", func(t *testing.T) {
		t.Parallel()
		_, err := New(WithRoutes(get("/a/*/b")))
		require.ErrorIs(t, err, route.ErrWildcardNotLast)
		assert.Panics(t, func() { MustNew(WithRoutes(get("/a/*/b"))) })
	})
}

func TestWithConstraint(t *testing.T) {
	t.Parallel()

	even := constraint.NewFunc("even", 0, 0, func(_ []string, s string) (any, bool) {
		n, err := fmt.Sscanf(s, "%d", new(int))
		return s, err == nil && n == 1 && (s[len(s)-1]-'0')%2 == 0
	})

	r := newBuilt(t, WithConstraint(even), WithRoutes(get("/e/{n:even}")))
	assert.True(t, r.Resolve("GET", "/e/12").Matched())
	assert.False(t, r.Resolve("GET", "/e/13").Matched())
	assert.True(t, r.Registry().Frozen())

	_, err := New(WithConstraints(r.Registry()), WithConstraint(even))
	require.ErrorIs(t, err, constraint.ErrRegistryFrozen)
}

func TestResolve_BuildsImplicitly(t *testing.T) {
	t.Parallel()

	r := MustNew(WithRoutes(get("/a")))
	assert.True(t, r.Resolve("GET", "/a").Matched())
	require.ErrorIs(t, r.Add(get("/b")), ErrRouterFrozen)
}

func TestReload(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(get("/old")))
	require.NoError(t, r.Reload([]route.Description{get("/new")}))

	assert.False(t, r.Resolve("GET", "/old").Matched())
	assert.True(t, r.Resolve("GET", "/new").Matched())
	assert.Equal(t, uint64(1), r.Generation())

	// A failing reload keeps the current table.
	err := r.Reload([]route.Description{get("/ok"), get("/a/{x")})
	require.ErrorIs(t, err, route.ErrUnterminatedParameter)
	assert.True(t, r.Resolve("GET", "/new").Matched())
	assert.Equal(t, uint64(1), r.Generation())
}

func TestReload_ConcurrentResolve(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(route.Description{Method: "GET", Path: "/v/{id:int}", Name: "a"}))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				res := r.Resolve("GET", "/v/1")
				if !res.Matched() {
					errs <- "unmatched during reload"
					return
				}
				if name := res.Route.Name; name != "a" && name != "b" {
					errs <- "unexpected route " + name
					return
				}
			}
		}()
	}

	for i := range 50 {
		name := "a"
		if i%2 == 0 {
			name = "b"
		}
		require.NoError(t, r.Reload([]route.Description{{Method: "GET", Path: "/v/{id:int}", Name: name}}))
	}
	cancel()
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
	assert.Equal(t, uint64(50), r.Generation())
}

func TestRoutesAndRouteExists(t *testing.T) {
	t.Parallel()

	r := newBuilt(t, WithRoutes(
		get("/b/{id:int}"),
		route.Description{Method: "post", Path: "/a", Name: "create", ModulePath: "/admin"},
		get(`^/re/(?P<x>\d+)$`),
	))

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, RouteInfo{Method: "POST", Path: "/a", Name: "create", Module: "/admin", Params: nil}, routes[0])
	assert.Equal(t, []string{"id"}, routes[1].Params)
	assert.True(t, routes[2].Regex)

	assert.True(t, r.RouteExists("post", "/a"))
	assert.False(t, r.RouteExists("GET", "/a"))
}

func TestObserver(t *testing.T) {
	t.Parallel()

	var events []ResolveEvent
	r := newBuilt(t,
		WithRoutes(get("/a")),
		WithObserver(ObserverFunc(func(_ context.Context, ev ResolveEvent) {
			events = append(events, ev)
		})),
	)

	r.Resolve("GET", "/a")
	r.Resolve("GET", "/b")

	require.Len(t, events, 2)
	assert.Equal(t, Matched, events[0].Result.Outcome)
	assert.Equal(t, "/a", events[0].Result.Pattern())
	assert.Equal(t, NotFound, events[1].Result.Outcome)
	assert.False(t, events[1].Start.IsZero())
}

func TestNoopLogger(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, NoopLogger())
	assert.Same(t, NoopLogger(), NoopLogger())
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "method_not_allowed", MethodNotAllowed.String())
}

func TestResult_Handler(t *testing.T) {
	t.Parallel()

	var got int64
	h := HandlerFunc(func(w http.ResponseWriter, _ *http.Request, res Result) {
		got, _ = res.Params.Int64("id")
		w.WriteHeader(http.StatusAccepted)
	})

	r := MustNew()
	require.NoError(t, r.Handle(http.MethodPut, "/jobs/{id:long}", h))
	require.NoError(t, r.Handle(http.MethodGet, "/plain", "not a handler"))
	r.Build()

	req := httptest.NewRequest(http.MethodPut, "/jobs/99", nil)
	res := r.ResolveRequest(req)
	handler, ok := res.Handler()
	require.True(t, ok)

	w := httptest.NewRecorder()
	handler.ServeRoute(w, req, res)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.EqualValues(t, 99, got)

	_, ok = r.Resolve(http.MethodGet, "/plain").Handler()
	assert.False(t, ok, "metadata is not a handler")
	_, ok = r.Resolve(http.MethodGet, "/missing").Handler()
	assert.False(t, ok)
}
