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

//go:build integration

package middleware_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pathwise.dev/middleware"
	"pathwise.dev/middleware/accesslog"
	"pathwise.dev/middleware/recovery"
	"pathwise.dev/middleware/requestid"
	"pathwise.dev/problem"
	"pathwise.dev/router"
)

// recordingHandler keeps every log record for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

// find returns the attributes of the first record with msg.
func (h *recordingHandler) find(msg string) (slog.Level, map[string]any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		attrs := make(map[string]any)
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.Any()
			return true
		})
		return r.Level, attrs, true
	}
	return 0, nil, false
}

// dispatch resolves each request and serves the matched route's handler.
func dispatch(r *router.Router) http.Handler {
	formatter := problem.Formatter{
		ErrorID: func(req *http.Request) string { return requestid.Get(req.Context()) },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res := r.ResolveRequest(req)
		accesslog.Annotate(req, res.Pattern(), res.Outcome.String())
		if p, ok := formatter.FromResult(req, res); ok {
			problem.Write(w, p)
			return
		}
		h, ok := res.Handler()
		Expect(ok).To(BeTrue())
		h.ServeRoute(w, req, res)
	})
}

var _ = Describe("Middleware chain", Label("integration"), func() {
	var (
		logs    *recordingHandler
		handler http.Handler
	)

	BeforeEach(func() {
		logs = &recordingHandler{}
		logger := slog.New(logs)

		r := router.MustNew()
		Expect(r.Handle(http.MethodGet, "/users/{id:int}", router.HandlerFunc(func(w http.ResponseWriter, req *http.Request, res router.Result) {
			Expect(requestid.Get(req.Context())).NotTo(BeEmpty())
			Expect(res.Params.Int64("id")).To(BeNumerically(">", 0))
			w.WriteHeader(http.StatusOK)
		}))).To(Succeed())
		Expect(r.Handle(http.MethodPost, "/users", router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, _ router.Result) {
			w.WriteHeader(http.StatusCreated)
		}))).To(Succeed())
		Expect(r.Handle(http.MethodGet, "/explode", router.HandlerFunc(func(http.ResponseWriter, *http.Request, router.Result) {
			panic("explode")
		}))).To(Succeed())
		r.Build()

		handler = middleware.Chain(dispatch(r),
			requestid.New(),
			accesslog.New(accesslog.WithLogger(logger)),
			recovery.New(recovery.WithLogger(logger), recovery.WithStackTrace(false)),
		)
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	It("logs the matched route template", func() {
		w := serve(http.MethodGet, "/users/7")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get(requestid.DefaultHeader)).NotTo(BeEmpty())

		level, attrs, ok := logs.find("access")
		Expect(ok).To(BeTrue())
		Expect(level).To(Equal(slog.LevelInfo))
		Expect(attrs).To(HaveKeyWithValue("http.route", "/users/{id:int}"))
		Expect(attrs).To(HaveKeyWithValue("route.outcome", "matched"))
		Expect(attrs).To(HaveKeyWithValue("req.id", w.Header().Get(requestid.DefaultHeader)))
	})

	It("answers a constraint miss with a not-found problem", func() {
		w := serve(http.MethodGet, "/users/abc")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Header().Get("Content-Type")).To(Equal(problem.ContentType))

		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("type", problem.TypeRouteNotFound))
		Expect(body).To(HaveKeyWithValue("error_id", w.Header().Get(requestid.DefaultHeader)))

		level, attrs, ok := logs.find("access")
		Expect(ok).To(BeTrue())
		Expect(level).To(Equal(slog.LevelWarn))
		Expect(attrs).To(HaveKeyWithValue("route.outcome", "not_found"))
	})

	It("lists allowed methods for a method mismatch", func() {
		w := serve(http.MethodDelete, "/users")
		Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(w.Header().Get("Allow")).To(Equal("POST"))

		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["allowed"]).To(ConsistOf("POST"))
	})

	It("serves HEAD through the GET route", func() {
		w := serve(http.MethodHead, "/users/7")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("logs a recovered panic as a server error", func() {
		w := serve(http.MethodGet, "/explode")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Header().Get(requestid.DefaultHeader)).NotTo(BeEmpty())

		_, panicAttrs, ok := logs.find("panic recovered")
		Expect(ok).To(BeTrue())
		Expect(panicAttrs).NotTo(HaveKey("stack"))

		level, attrs, ok := logs.find("access")
		Expect(ok).To(BeTrue())
		Expect(level).To(Equal(slog.LevelError))
		Expect(attrs).To(HaveKeyWithValue("http.status_code", int64(http.StatusInternalServerError)))
		Expect(attrs).To(HaveKeyWithValue("http.route", "/explode"))
	})
})
