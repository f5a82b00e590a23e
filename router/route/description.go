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

package route

import (
	"net/http"
	"strings"
)

// Condition is an optional per-route predicate evaluated against the
// incoming request after the path and method have matched.
type Condition func(*http.Request) bool

// Description is the registration record of a route.
//
// Descriptions are produced by the code that discovers routes (modules,
// configuration files) and are read-only to the router. The router keeps its
// own copy, so mutating a Description after registration has no effect.
type Description struct {
	Method     string    // HTTP method, compared case-insensitively
	Path       string    // Route template
	ModulePath string    // Mount path of the owning module, informational
	Name       string    // Optional unique name for reverse routing
	Condition  Condition // Optional predicate, nil means always
	Metadata   any       // Opaque payload for the caller, typically a handler

	// RequireWildcardValue makes a trailing wildcard reject an empty
	// remainder. By default "/files/*" also matches "/files".
	RequireWildcardValue bool
}

// String returns "METHOD path".
func (d *Description) String() string {
	return d.Method + " " + d.Path
}

// Allows reports whether the route's condition accepts req.
func (d *Description) Allows(req *http.Request) bool {
	return d.Condition == nil || d.Condition(req)
}

// Normalize returns a copy with the method upper-cased and surrounding
// whitespace removed from method and path.
func (d Description) Normalize() Description {
	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	d.Path = strings.TrimSpace(d.Path)
	return d
}

// ValidateMethod reports [ErrInvalidMethod] for an empty method or one
// containing characters outside the HTTP token set.
func ValidateMethod(method string) error {
	if method == "" {
		return ErrInvalidMethod
	}
	for i := 0; i < len(method); i++ {
		if !isTokenChar(method[i]) {
			return ErrInvalidMethod
		}
	}
	return nil
}

// isTokenChar reports whether c is a tchar as defined by RFC 9110.
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
