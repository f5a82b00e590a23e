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

// Package tracing records route resolutions as OpenTelemetry spans.
//
// A [Tracer] implements [router.Observer]. Each resolution becomes a
// "route.resolve" span, timed from the router's own clock, child of the span
// found in the resolution context. When the context span is recording, the
// matched template is also set on it as http.route, so server spans created
// by an HTTP instrumentation layer carry the low-cardinality route name.
//
//	tracer := tracing.MustNew(tracing.WithStdout(os.Stderr))
//	defer tracer.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithObserver(tracer))
//	res := r.ResolveRequest(req.WithContext(tracer.Extract(req.Context(), req.Header)))
//
// Providers: noop (default, spans are created but not exported), stdout,
// OTLP over gRPC and OTLP over HTTP. [WithTracerProvider] uses a provider
// managed by the caller.
package tracing
