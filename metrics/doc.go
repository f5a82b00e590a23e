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

// Package metrics records route resolution metrics with OpenTelemetry.
//
// A [Recorder] implements [router.Observer] and [router.DiagnosticHandler].
// Attach it to a router to count resolutions by outcome, method and route
// pattern, measure resolution latency, and track the size of the published
// route table:
//
//	recorder := metrics.MustNew(metrics.WithServiceName("gateway"))
//	defer recorder.Shutdown(context.Background())
//
//	r := router.MustNew(
//	    router.WithObserver(recorder),
//	    router.WithDiagnostics(recorder),
//	)
//	http.Handle("/metrics", recorder.Handler())
//
// # Providers
//
// Prometheus is the default provider. Metrics are kept in a private
// registry and served by [Recorder.Handler]. [WithOTLP] pushes to an OTLP
// HTTP collector and [WithStdout] writes periodic JSON snapshots, which is
// handy during development. [WithMeterProvider] uses a provider managed by
// the caller.
//
// # Instruments
//
//   - pathwise.resolve.requests: counter of resolutions
//   - pathwise.resolve.duration: histogram of resolution latency in seconds
//   - pathwise.routes.published: gauge of routes in the published table
//
// Resolutions carry the attributes outcome, method and route. The route
// attribute is the registered template, never the raw path, so its
// cardinality is bounded by the route table.
package metrics
