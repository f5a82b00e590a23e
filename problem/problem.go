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

// Package problem writes RFC 9457 Problem Details responses for requests
// the router could not serve.
//
//	f := problem.Formatter{BaseURL: "https://example.com/problems"}
//	if p, ok := f.FromResult(req, res); ok {
//	    problem.Write(w, p)
//	}
package problem

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pathwise.dev/router"
)

// ContentType is the media type of problem responses.
const ContentType = "application/problem+json; charset=utf-8"

// Problem type slugs appended to the formatter's BaseURL.
const (
	TypeRouteNotFound    = "route-not-found"
	TypeMethodNotAllowed = "method-not-allowed"
	TypeInternal         = "internal-error"
)

// Detail is an RFC 9457 problem detail. Extensions are marshaled inline.
type Detail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges the extensions into the object. Extensions cannot
// override the standard members.
func (p Detail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		if _, reserved := m[k]; reserved || k == "detail" || k == "instance" {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

// StatusCoder is implemented by errors that carry their HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// Coder is implemented by errors with a stable machine-readable code.
type Coder interface {
	Code() string
}

// Formatter builds problem details.
type Formatter struct {
	// BaseURL is prepended to type slugs. Empty yields "about:blank" for
	// errors without a code and the bare slug otherwise.
	BaseURL string

	// ErrorID returns the correlation ID of req. Nil uses a random ID.
	ErrorID func(req *http.Request) string
}

func (f Formatter) typeURI(slug string) string {
	if slug == "" {
		return "about:blank"
	}
	if f.BaseURL == "" {
		return slug
	}
	return strings.TrimSuffix(f.BaseURL, "/") + "/" + slug
}

func (f Formatter) errorID(req *http.Request) string {
	if f.ErrorID != nil {
		if id := f.ErrorID(req); id != "" {
			return id
		}
	}
	return generateErrorID()
}

// FromResult describes a NotFound or MethodNotAllowed resolution. It
// reports false for matched results.
func (f Formatter) FromResult(req *http.Request, res router.Result) (Detail, bool) {
	var p Detail
	switch res.Outcome {
	case router.NotFound:
		p = Detail{
			Type:   f.typeURI(TypeRouteNotFound),
			Title:  http.StatusText(http.StatusNotFound),
			Status: http.StatusNotFound,
			Detail: fmt.Sprintf("no route matches %s", res.Path),
		}
	case router.MethodNotAllowed:
		p = Detail{
			Type:       f.typeURI(TypeMethodNotAllowed),
			Title:      http.StatusText(http.StatusMethodNotAllowed),
			Status:     http.StatusMethodNotAllowed,
			Detail:     fmt.Sprintf("%s is not allowed for %s", req.Method, res.Path),
			Extensions: map[string]any{"allowed": res.Allowed},
		}
	default:
		return Detail{}, false
	}
	p.Instance = req.URL.Path
	p.set("error_id", f.errorID(req))
	return p, true
}

// Format describes err. The status comes from [StatusCoder], otherwise 500,
// and the type from [Coder].
func (f Formatter) Format(req *http.Request, err error) Detail {
	status := http.StatusInternalServerError
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	slug := ""
	var coded Coder
	if errors.As(err, &coded) {
		slug = coded.Code()
	} else if status == http.StatusInternalServerError {
		slug = TypeInternal
	}

	p := Detail{
		Type:     f.typeURI(slug),
		Title:    http.StatusText(status),
		Status:   status,
		Instance: req.URL.Path,
	}
	if status < http.StatusInternalServerError {
		p.Detail = err.Error()
	}
	if slug != "" && coded != nil {
		p.set("code", slug)
	}
	p.set("error_id", f.errorID(req))
	return p
}

func (p *Detail) set(key string, value any) {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
}

// Write sends p with its status. A MethodNotAllowed problem carrying an
// "allowed" extension also sets the Allow header.
func Write(w http.ResponseWriter, p Detail) {
	if allowed, ok := p.Extensions["allowed"].([]string); ok && p.Status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// generateErrorID returns a random correlation ID.
func generateErrorID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}
	return "err-" + hex.EncodeToString(b)
}
