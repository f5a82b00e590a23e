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

import "errors"

var (
	// ErrRouterFrozen indicates a registration after the route table was built.
	// Use Reload to replace the routes of a built router.
	ErrRouterFrozen = errors.New("routes are frozen; use Reload")

	// ErrDuplicateRoute indicates two unconditional routes with the same method and template.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrDuplicateRouteName indicates two routes registered under the same name.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrRouteNotFound indicates that no route is registered under the requested name.
	ErrRouteNotFound = errors.New("route not found")

	// ErrParamMissing is returned when a parameter was not captured.
	ErrParamMissing = errors.New("parameter not found")

	// ErrParamInvalid is returned when a captured parameter cannot be converted.
	ErrParamInvalid = errors.New("invalid parameter value")
)
