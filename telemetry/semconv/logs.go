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

package semconv

// Service metadata, set once per logger or provider.
const (
	ServiceName       = "service.name"
	ServiceVersion    = "service.version"
	DeploymentEnviron = "deployment.environment"
)

// HTTP request attributes.
const (
	// HTTPMethod is the request method.
	HTTPMethod = "http.method"

	// HTTPRoute is the matched route template, never the raw path.
	HTTPRoute = "http.route"

	// HTTPTarget is the requested path.
	HTTPTarget = "http.target"

	// HTTPStatusCode is the response status code.
	HTTPStatusCode = "http.status_code"

	HTTPUserAgent = "http.user_agent"
)

// NetworkPeerIP is the address of the direct peer connection.
const NetworkPeerIP = "network.peer.ip"

// Trace and request correlation.
const (
	TraceID   = "trace_id"
	SpanID    = "span_id"
	RequestID = "req.id"
)

// Route resolution attributes.
const (
	// RouteOutcome is "matched", "not_found" or "method_not_allowed".
	RouteOutcome = "route.outcome"

	// RouteName is the name of a named route.
	RouteName = "route.name"

	// RouteModule is the module path the route belongs to.
	RouteModule = "route.module"

	// RouteAllowed lists the methods allowed for a method-not-allowed path.
	RouteAllowed = "route.allowed_methods"

	// RouteParamPrefix prefixes raw capture attributes, e.g. "route.param.id".
	RouteParamPrefix = "route.param."

	// RoutesPublished is the route count of a published table.
	RoutesPublished = "route.table.size"
)
