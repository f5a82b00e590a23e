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

package config

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
)

// routesKey is the document key whose lists are concatenated across sources
// instead of replaced.
const routesKey = "routes"

// normalize lower-cases map keys and converts the container types produced
// by the codecs ([]map[string]any from TOML, map[any]any from YAML) to
// map[string]any and []any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[strings.ToLower(k)] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[strings.ToLower(fmt.Sprint(k))] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// mergeDocument merges src into dst. Nested settings from src override dst;
// the routes of src are appended to those of dst.
func mergeDocument(dst, src map[string]any) error {
	routes, hasRoutes := src[routesKey]
	if hasRoutes {
		rest := make(map[string]any, len(src))
		for k, v := range src {
			if k != routesKey {
				rest[k] = v
			}
		}
		src = rest
	}

	if err := mergo.Map(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	if !hasRoutes || routes == nil {
		return nil
	}
	list, ok := routes.([]any)
	if !ok {
		return fmt.Errorf("%s must be a list, got %T", routesKey, routes)
	}
	existing, _ := dst[routesKey].([]any)
	dst[routesKey] = append(existing, list...)
	return nil
}
