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

// Package accesslog writes one structured log entry per request, including
// the route template the request resolved to.
package accesslog

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"pathwise.dev/middleware/requestid"
	"pathwise.dev/telemetry/semconv"
)

type annotationKey struct{}

// annotation is filled in by downstream handlers via [Annotate].
type annotation struct {
	route   string
	outcome string
}

// Annotate records the route template and resolution outcome of r for the
// access log. It is a no-op outside the middleware.
func Annotate(r *http.Request, route, outcome string) {
	if a, ok := r.Context().Value(annotationKey{}).(*annotation); ok {
		a.route = route
		a.outcome = outcome
	}
}

// New returns access log middleware.
//
//	h = accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/metrics"),
//	    accesslog.WithSlowThreshold(250*time.Millisecond),
//	)(h)
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.logger == nil || cfg.excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ann := &annotation{}
			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), annotationKey{}, ann)))

			cfg.log(r, rw, ann, time.Since(start))
		})
	}
}

func (c *config) excluded(path string) bool {
	if c.excludePaths[path] {
		return true
	}
	for _, prefix := range c.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (c *config) log(r *http.Request, rw *responseWriter, ann *annotation, d time.Duration) {
	status := rw.StatusCode()
	id := requestid.Get(r.Context())

	isError := status >= 400
	isSlow := c.slowThreshold > 0 && d >= c.slowThreshold
	if !isError && !isSlow {
		if c.errorsOnly || !sampleByHash(id, c.sampleRate) {
			return
		}
	}

	attrs := []slog.Attr{
		slog.String(semconv.HTTPMethod, r.Method),
		slog.String(semconv.HTTPTarget, r.URL.Path),
		slog.Int(semconv.HTTPStatusCode, status),
		slog.Int64("duration_ms", d.Milliseconds()),
		slog.Int64("bytes_sent", rw.Size()),
		slog.String(semconv.HTTPUserAgent, r.UserAgent()),
		slog.String(semconv.NetworkPeerIP, clientIP(r)),
	}
	if ann.route != "" {
		attrs = append(attrs, slog.String(semconv.HTTPRoute, ann.route))
	}
	if ann.outcome != "" {
		attrs = append(attrs, slog.String(semconv.RouteOutcome, ann.outcome))
	}
	if id != "" {
		attrs = append(attrs, slog.String(semconv.RequestID, id))
	}
	if isSlow {
		attrs = append(attrs, slog.Bool("slow", true))
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case isError, isSlow:
		level = slog.LevelWarn
	}
	c.logger.LogAttrs(r.Context(), level, "access", attrs...)
}

// sampleByHash is deterministic in id. Requests without an ID are logged.
func sampleByHash(id string, rate float64) bool {
	if rate >= 1.0 || id == "" {
		return true
	}
	if rate <= 0 {
		return false
	}
	h := sha256.Sum256([]byte(id))
	return binary.BigEndian.Uint64(h[:8]) <= uint64(rate*float64(^uint64(0)))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseWriter records the status and body size.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

var (
	_ http.Flusher  = (*responseWriter)(nil)
	_ io.ReaderFrom = (*responseWriter)(nil)
)

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

func (rw *responseWriter) StatusCode() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func (rw *responseWriter) Size() int64 { return rw.size }

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) ReadFrom(r io.Reader) (int64, error) {
	if rw.status == 0 {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := io.Copy(rw.ResponseWriter, r)
	rw.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
