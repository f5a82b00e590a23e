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

// Package middleware groups the net/http middleware used in front of a
// resolving server. Each middleware lives in its own subpackage:
//
//   - requestid: assigns a request ID and echoes it in the response
//   - recovery: turns handler panics into 500 problem responses
//   - accesslog: structured access logs with the resolved route
//
// Middleware are plain func(http.Handler) http.Handler values; [Chain]
// composes them so the first one listed runs outermost.
package middleware

import "net/http"

// Chain wraps h with mws. Chain(h, a, b) serves requests through a, then b,
// then h.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
