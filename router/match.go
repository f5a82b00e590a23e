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
	"strings"

	"pathwise.dev/router/route"
)

// Candidate is a route whose template structurally matches a path,
// regardless of method or condition.
type Candidate struct {
	Route    *route.Description
	Template *route.Template
	Params   Params            // Captured values, typed by their constraints
	Raw      map[string]string // Captured values as they appeared in the path

	kinds  []route.Kind // Kind of the edge consuming each path position
	absent int          // Optional segments filled from defaults or omitted
}

// slot records how one template segment was matched during traversal.
type slot struct {
	kind  route.Kind
	raw   string
	value any
}

// matcher holds the per-call traversal state of Trie.Match. It is never
// shared between goroutines.
type matcher struct {
	trie     *Trie
	segments []string
	slots    []slot
	out      []Candidate
}

// walk tries the children of n for segments[i:] in precedence order,
// backtracking after every branch so a failure deep in one branch never
// hides a sibling.
func (m *matcher) walk(n *node, i int) {
	if i == len(m.segments) {
		m.collect(n)
		if n.wildcard != nil {
			m.push(route.KindWildcard, "", nil)
			m.collect(n.wildcard)
			m.pop()
		}
		return
	}

	seg := m.segments[i]

	if n.literals != nil {
		if next, ok := n.literals[foldLiteral(seg, m.trie.opts.CaseSensitive)]; ok {
			m.push(route.KindLiteral, seg, nil)
			m.walk(next, i+1)
			m.pop()
		}
	}

	for _, e := range n.constrained {
		if v, ok := e.constraint.Convert(seg); ok {
			m.push(route.KindConstrained, seg, v)
			m.walk(e.node, i+1)
			m.pop()
		}
	}

	if n.param != nil && seg != "" {
		m.push(route.KindParameter, seg, nil)
		m.walk(n.param, i+1)
		m.pop()
	}

	if n.wildcard != nil {
		m.push(route.KindWildcard, strings.Join(m.segments[i:], "/"), nil)
		m.collect(n.wildcard)
		m.pop()
	}
}

func (m *matcher) push(kind route.Kind, raw string, value any) {
	m.slots = append(m.slots, slot{kind: kind, raw: raw, value: value})
}

func (m *matcher) pop() {
	m.slots = m.slots[:len(m.slots)-1]
}

// collect turns the terminals of n into candidates using the current slots.
func (m *matcher) collect(n *node) {
	for _, term := range n.terminals {
		if term.route.RequireWildcardValue && m.emptyWildcard() {
			continue
		}
		m.out = append(m.out, m.candidate(term))
	}
}

func (m *matcher) emptyWildcard() bool {
	if len(m.slots) == 0 {
		return false
	}
	last := m.slots[len(m.slots)-1]
	return last.kind == route.KindWildcard && last.raw == ""
}

func (m *matcher) candidate(term *terminal) Candidate {
	tmpl := term.template
	c := Candidate{
		Route:    term.route,
		Template: tmpl,
		Params:   make(Params, tmpl.Len()),
		Raw:      make(map[string]string, tmpl.Len()),
		kinds:    make([]route.Kind, len(m.slots)),
		absent:   tmpl.Len() - term.depth,
	}

	for d, s := range m.slots {
		c.kinds[d] = s.kind
		seg := tmpl.Segment(d)
		switch seg.Kind {
		case route.KindLiteral:
			continue
		case route.KindConstrained:
			c.Params[seg.Name] = s.value
		default:
			c.Params[seg.Name] = s.raw
		}
		c.Raw[seg.Name] = s.raw
	}

	for d := term.depth; d < tmpl.Len(); d++ {
		switch seg := tmpl.Segment(d); {
		case seg.HasDefault:
			c.Params[seg.Name] = seg.Default
			c.Raw[seg.Name] = seg.Default
		case seg.Kind == route.KindWildcard:
			c.Params[seg.Name] = ""
			c.Raw[seg.Name] = ""
		}
	}

	return c
}

// matchRegex evaluates raw regex routes against the full path in
// registration order. Named groups that participated become captures.
func (m *matcher) matchRegex(path string) {
	for _, term := range m.trie.regex {
		re := term.template.Regexp()
		loc := re.FindStringSubmatchIndex(path)
		if loc == nil {
			continue
		}

		c := Candidate{
			Route:    term.route,
			Template: term.template,
			Params:   make(Params),
			Raw:      make(map[string]string),
			kinds:    []route.Kind{route.KindRegex},
		}
		for gi, name := range re.SubexpNames() {
			if name == "" || loc[2*gi] < 0 {
				continue
			}
			v := path[loc[2*gi]:loc[2*gi+1]]
			c.Params[name] = v
			c.Raw[name] = v
		}
		m.out = append(m.out, c)
	}
}

// compareCandidates orders candidates by precedence. See Trie.Match.
func compareCandidates(a, b Candidate) int {
	for i := range min(len(a.kinds), len(b.kinds)) {
		if a.kinds[i] != b.kinds[i] {
			if a.kinds[i] < b.kinds[i] {
				return -1
			}
			return 1
		}
	}
	if len(a.kinds) != len(b.kinds) {
		if len(a.kinds) < len(b.kinds) {
			return -1
		}
		return 1
	}
	switch {
	case a.absent < b.absent:
		return -1
	case a.absent > b.absent:
		return 1
	}
	return 0
}
