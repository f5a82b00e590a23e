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
	"errors"
	"net"
	"net/http"
	"strings"

	"pathwise.dev/router/route"
)

// ErrInvalidCondition is returned for a condition that does not name
// exactly one of header, query or host.
var ErrInvalidCondition = errors.New("condition must set exactly one of header, query or host")

// ConditionEntry is one request predicate of a route. Exactly one of
// Header, Query or Host is set.
//
//   - header: the header is present, or equals Equals when set
//   - query: the query parameter is present, or equals Equals when set
//   - host: the request host, without port, equals Host case-insensitively
type ConditionEntry struct {
	Header string `config:"header" json:"header,omitempty"`
	Query  string `config:"query" json:"query,omitempty"`
	Host   string `config:"host" json:"host,omitempty"`
	Equals string `config:"equals" json:"equals,omitempty"`
}

// predicate builds the request predicate for c.
func (c ConditionEntry) predicate() (func(*http.Request) bool, error) {
	set := 0
	for _, s := range []string{c.Header, c.Query, c.Host} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrInvalidCondition
	}

	switch {
	case c.Header != "":
		name, want := http.CanonicalHeaderKey(c.Header), c.Equals
		return func(r *http.Request) bool {
			values, ok := r.Header[name]
			if !ok {
				return false
			}
			return want == "" || (len(values) > 0 && values[0] == want)
		}, nil

	case c.Query != "":
		name, want := c.Query, c.Equals
		return func(r *http.Request) bool {
			if r.URL == nil {
				return false
			}
			q := r.URL.Query()
			if !q.Has(name) {
				return false
			}
			return want == "" || q.Get(name) == want
		}, nil

	default:
		want := c.Host
		return func(r *http.Request) bool {
			return strings.EqualFold(hostname(r.Host), want)
		}, nil
	}
}

func hostname(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}

// allOf combines predicates; nil when there are none.
func allOf(preds []func(*http.Request) bool) route.Condition {
	if len(preds) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
