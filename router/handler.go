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

import "net/http"

// Handler serves a matched route. Registering one as the route metadata
// gives callers typed dispatch through [Result.Handler].
type Handler interface {
	ServeRoute(w http.ResponseWriter, req *http.Request, res Result)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(w http.ResponseWriter, req *http.Request, res Result)

// ServeRoute calls f.
func (f HandlerFunc) ServeRoute(w http.ResponseWriter, req *http.Request, res Result) {
	f(w, req, res)
}

// Handler returns the handler registered as the selected route's metadata.
// It reports false for unmatched results and for other metadata.
func (r Result) Handler() (Handler, bool) {
	if !r.Matched() || r.Route == nil {
		return nil, false
	}
	h, ok := r.Route.Metadata.(Handler)
	return h, ok
}
