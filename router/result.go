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

import "pathwise.dev/router/route"

// Outcome is the kind of a resolution result.
type Outcome int

const (
	// NotFound means no route matched the path, or every route matching the
	// path and method had a condition that rejected the request.
	NotFound Outcome = iota
	// Matched means a route was selected.
	Matched
	// MethodNotAllowed means the path matched but no route accepts the method.
	MethodNotAllowed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Pattern labels used for unmatched results in metrics and traces.
const (
	notFoundPattern         = "_not_found"
	methodNotAllowedPattern = "_method_not_allowed"
)

// Result is the outcome of resolving a method and path.
type Result struct {
	Outcome  Outcome
	Route    *route.Description // Selected route, nil unless Matched
	Template *route.Template    // Parsed template of Route
	Params   Params             // Typed captures
	Raw      map[string]string  // Captures as they appeared in the path
	Path     string             // The resolved path
	Allowed  []string           // Sorted allowed methods when MethodNotAllowed
}

// Matched reports whether a route was selected.
func (r Result) Matched() bool {
	return r.Outcome == Matched
}

// Pattern returns the template of the selected route, or a fixed label for
// unmatched results. It is bounded in cardinality and safe for metric labels.
func (r Result) Pattern() string {
	switch r.Outcome {
	case Matched:
		return r.Route.Path
	case MethodNotAllowed:
		return methodNotAllowedPattern
	default:
		return notFoundPattern
	}
}
