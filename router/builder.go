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

import (
	"fmt"
	"strings"

	"pathwise.dev/router/route"
)

// builder accumulates routes for one table. It is owned by a single writer.
type builder struct {
	r      *Router
	trie   *Trie
	named  map[string]*route.Template
	shapes map[string]*shape
}

// shape tracks routes sharing a method and structural template.
type shape struct {
	count         int
	unconditional bool
}

func (r *Router) newBuilder() *builder {
	return &builder{
		r:      r,
		trie:   NewTrie(TrieOptions{CaseSensitive: r.caseSensitive}, r.registry),
		named:  make(map[string]*route.Template),
		shapes: make(map[string]*shape),
	}
}

// add validates and inserts one route.
func (b *builder) add(d route.Description) error {
	d = d.Normalize()
	if err := route.ValidateMethod(d.Method); err != nil {
		return fmt.Errorf("%w: %q for %s", err, d.Method, d.Path)
	}
	if d.Name != "" {
		if _, dup := b.named[d.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRouteName, d.Name)
		}
	}

	tmpl, err := route.Parse(d.Path, b.r.registry)
	if err != nil {
		return err
	}

	key := d.Method + " " + shapeKey(tmpl, b.r.caseSensitive)
	s := b.shapes[key]
	if s == nil {
		s = &shape{}
		b.shapes[key] = s
	}
	if d.Condition == nil && s.unconditional && !b.r.allowDuplicates {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, d.String())
	}

	b.trie.insert(&d, tmpl)

	if s.count > 0 {
		b.r.emit(DiagConditionalDuplicate, "route shares method and template with another route", map[string]any{
			"method": d.Method,
			"path":   d.Path,
			"count":  s.count + 1,
		})
	}
	s.count++
	if d.Condition == nil {
		s.unconditional = true
	}
	if d.Name != "" {
		b.named[d.Name] = tmpl
	}

	b.r.logger.Debug("route registered", "method", d.Method, "path", d.Path, "name", d.Name)
	b.r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"method": d.Method,
		"path":   d.Path,
	})
	if tmpl.IsRegex() {
		b.r.emit(DiagRegexRoute, "regex route registered; matched only when no template route matches", map[string]any{
			"path": d.Path,
		})
	}
	if n := len(tmpl.Params()); n > highParamCount {
		b.r.emit(DiagHighParamCount, "route has many parameters", map[string]any{
			"path":   d.Path,
			"params": n,
		})
	}
	return nil
}

func (b *builder) table() *table {
	return &table{trie: b.trie, named: b.named}
}

// shapeKey identifies a template up to capture names, so "/a/{x}" and
// "/a/{y}" collide.
func shapeKey(tmpl *route.Template, caseSensitive bool) string {
	if tmpl.IsRegex() {
		return tmpl.String()
	}
	var sb strings.Builder
	for _, seg := range tmpl.Segments() {
		sb.WriteByte('/')
		switch seg.Kind {
		case route.KindLiteral:
			sb.WriteString(foldLiteral(seg.Text, caseSensitive))
		case route.KindConstrained:
			sb.WriteString("{:" + seg.Constraint.Key() + "}")
		case route.KindOptional:
			sb.WriteString("{?}")
		case route.KindWildcard:
			sb.WriteByte('*')
		default:
			sb.WriteString("{}")
		}
	}
	return sb.String()
}
