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

// Package router matches request paths against a table of route templates.
//
// Routes are stored in a [Trie] of template segments. A path is matched
// depth first, trying children at each node in precedence order:
//
//  1. literal segments, case-insensitive unless [WithCaseSensitive] is set
//  2. constrained parameters such as {id:int}, in registration order
//  3. plain parameters such as {name}, and optional parameters {name?}
//  4. a trailing wildcard, * or {name*}, which consumes the rest of the path
//
// Every route that matches the whole path is a candidate. Candidates are
// ranked by the kinds of the segments that matched, compared position by
// position, so /users/me beats /users/{id:int}, which beats /users/{name}.
// Templates starting with ^ are raw regular expressions, consulted only when
// no template route matches.
//
// # Resolution
//
// [Router.Resolve] filters the candidates by method and condition:
//
//	r := router.MustNew()
//	_ = r.Handle("GET", "/users/{id:int}", showUser)
//	_ = r.Handle("DELETE", "/users/{id:int}", deleteUser)
//	r.Build()
//
//	res := r.Resolve("GET", "/users/42")
//	// res.Outcome == router.Matched, res.Params["id"] == int64(42)
//
//	res = r.Resolve("PUT", "/users/42")
//	// res.Outcome == router.MethodNotAllowed, res.Allowed == [DELETE GET HEAD]
//
// HEAD requests resolve to GET routes unless a HEAD route matches the path.
// Conditions are evaluated in candidate order and the first accepting route
// wins.
//
// # Concurrency
//
// Routes are registered during a single-threaded build phase. [Router.Build]
// publishes an immutable table, after which resolutions are lock free.
// [Router.Reload] swaps in a new table atomically.
package router
