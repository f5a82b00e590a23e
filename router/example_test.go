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

package router_test

import (
	"fmt"

	"pathwise.dev/router"
	"pathwise.dev/router/route"
)

// ExampleRouter_Resolve demonstrates precedence and 405 detection.
func ExampleRouter_Resolve() {
	r := router.MustNew(router.WithRoutes(
		route.Description{Method: "GET", Path: "/users/me"},
		route.Description{Method: "GET", Path: "/users/{id:int}"},
		route.Description{Method: "DELETE", Path: "/users/{id:int}"},
	))
	r.Build()

	res := r.Resolve("GET", "/users/me")
	fmt.Println(res.Outcome, res.Route.Path)

	res = r.Resolve("GET", "/users/42")
	fmt.Println(res.Outcome, res.Route.Path, res.Params["id"])

	res = r.Resolve("PUT", "/users/42")
	fmt.Println(res.Outcome, res.Allowed)
	// Output:
	// matched /users/me
	// matched /users/{id:int} 42
	// method_not_allowed [DELETE GET HEAD]
}

// ExampleRouter_Render demonstrates reverse routing of a named route.
func ExampleRouter_Render() {
	r := router.MustNew()
	_ = r.Handle("GET", "/files/{owner}/{path*}", nil, router.Named("file"))
	r.Build()

	path, err := r.Render("file", map[string]any{"owner": "ada", "path": "docs/notes.txt"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(path)
	// Output: /files/ada/docs/notes.txt
}
