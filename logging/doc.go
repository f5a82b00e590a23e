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

// Package logging builds the structured loggers used by pathwise.
//
// A [Logger] wraps a [log/slog.Logger] configured with one of three
// handlers: JSON (the default), text key=value, or a colored console
// handler for development. Service metadata is attached to every record and
// well-known secret attribute names are redacted.
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithDebugLevel(),
//	    logging.WithServiceName("gateway"),
//	)
//	r := router.MustNew(
//	    router.WithLogger(logger.Logger()),
//	    router.WithDiagnostics(logging.Diagnostics(logger.Logger())),
//	)
package logging
