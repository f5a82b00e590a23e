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

// Package config loads declarative route tables.
//
// A route table is a document with router settings and a list of routes:
//
//	router:
//	  case_sensitive: false
//	routes:
//	  - method: GET
//	    path: /users/{id:int}
//	    name: user
//	  - methods: [GET, POST]
//	    path: /beta/{rest*}
//	    when:
//	      - header: X-Beta
//	        equals: "1"
//
// Documents are read from one or more sources (files, inline content,
// environment variables, Consul KV) and merged in order: settings from later
// sources override earlier ones, while route lists are concatenated. The
// merged document is validated against a JSON Schema, then bound to a
// [Table] with mapstructure.
//
//	cfg := config.MustNew(
//	    config.WithFile("routes.yaml"),
//	    config.WithEnv("PATHWISE_"),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	descs, err := cfg.Table().Descriptions()
//
// [Config.Watch] reloads periodically and reports changed tables, which
// pairs with [router.Router.Reload] for hot route-table updates.
package config
