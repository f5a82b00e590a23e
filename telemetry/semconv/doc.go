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

// Package semconv defines the attribute keys shared by logs, metrics and
// traces, so a resolution can be correlated across all three.
//
// Keys follow OpenTelemetry semantic conventions where one exists. Keys
// specific to route resolution live under the "route." namespace.
//
//	logger.Info("route resolved",
//	    semconv.HTTPMethod, "GET",
//	    semconv.HTTPRoute, "/users/{id:int}",
//	    semconv.RouteOutcome, "matched",
//	)
package semconv
