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
	"slices"
	"strings"

	"pathwise.dev/router/constraint"
	"pathwise.dev/router/route"
)

// TrieOptions configures a [Trie].
type TrieOptions struct {
	// CaseSensitive makes literal segments match only with exact case.
	// The default compares literals case-insensitively.
	CaseSensitive bool
}

// Trie is a prefix tree of route template segments.
//
// Thread safety:
// Insert is only called during the build phase. Once a Trie is published to
// readers it is never mutated again, so Match is safe for concurrent use
// without locking.
type Trie struct {
	opts     TrieOptions
	registry *constraint.Registry
	root     *node
	regex    []*terminal // Raw regex routes, tried when the tree yields nothing
	size     int
}

// terminal is a route attached to the node where its template ends.
type terminal struct {
	route    *route.Description
	template *route.Template
	depth    int // Template segments consumed to reach the owning node
}

// node represents one path segment position.
//
// Children are kept by kind so that matching can try them in precedence
// order: literals, constrained parameters (registration order), the
// unconstrained parameter, then the wildcard.
type node struct {
	literals    map[string]*node
	constrained []*constrainedEdge
	param       *node
	wildcard    *node
	terminals   []*terminal
}

// constrainedEdge is a constrained-parameter child. Segments with the same
// constraint key share one edge, whatever their capture names.
type constrainedEdge struct {
	key        string
	constraint *constraint.Constraint
	node       *node
}

// NewTrie creates an empty trie. Constraint names in inserted templates are
// resolved against registry, or the built-in constraints when nil.
func NewTrie(opts TrieOptions, registry *constraint.Registry) *Trie {
	if registry == nil {
		registry = constraint.Default()
	}
	return &Trie{
		opts:     opts,
		registry: registry,
		root:     &node{},
	}
}

// Len returns the number of inserted routes.
func (t *Trie) Len() int {
	return t.size
}

// Insert parses desc.Path and attaches desc to the node where the template
// ends. Templates with trailing optional parameters are attached once per
// possible length.
//
// Insert returns the parsed template, or a [*route.TemplateError] for a
// malformed template. Insert must not be called once the trie is being read.
func (t *Trie) Insert(desc *route.Description) (*route.Template, error) {
	tmpl, err := route.Parse(desc.Path, t.registry)
	if err != nil {
		return nil, err
	}
	t.insert(desc, tmpl)
	return tmpl, nil
}

// insert attaches desc under an already parsed template.
func (t *Trie) insert(desc *route.Description, tmpl *route.Template) {
	t.size++

	if tmpl.IsRegex() {
		t.regex = append(t.regex, &terminal{route: desc, template: tmpl})
		return
	}

	// Routes may end early once optional segments begin. A trailing
	// wildcard matches empty through its own node, and a route requiring a
	// wildcard value can never end before it.
	firstOptional := tmpl.FirstOptional()
	if desc.RequireWildcardValue && tmpl.Len() > 0 && tmpl.Segment(tmpl.Len()-1).Kind == route.KindWildcard {
		firstOptional = tmpl.Len()
	}
	current := t.root
	for i := range tmpl.Len() {
		if i >= firstOptional && tmpl.Segment(i).Kind != route.KindWildcard {
			current.attach(desc, tmpl, i)
		}
		current = current.child(tmpl.Segment(i), t.opts.CaseSensitive)
	}
	current.attach(desc, tmpl, tmpl.Len())
}

func (n *node) attach(desc *route.Description, tmpl *route.Template, depth int) {
	n.terminals = append(n.terminals, &terminal{route: desc, template: tmpl, depth: depth})
}

// child returns the child node for seg, creating it if needed.
func (n *node) child(seg route.Segment, caseSensitive bool) *node {
	switch seg.Kind {
	case route.KindLiteral:
		key := foldLiteral(seg.Text, caseSensitive)
		if n.literals == nil {
			n.literals = make(map[string]*node, 4)
		}
		next, ok := n.literals[key]
		if !ok {
			next = &node{}
			n.literals[key] = next
		}
		return next

	case route.KindConstrained:
		key := seg.Constraint.Key()
		for _, e := range n.constrained {
			if e.key == key {
				return e.node
			}
		}
		e := &constrainedEdge{key: key, constraint: seg.Constraint, node: &node{}}
		n.constrained = append(n.constrained, e)
		return e.node

	case route.KindWildcard:
		if n.wildcard == nil {
			n.wildcard = &node{}
		}
		return n.wildcard

	default: // KindParameter, KindOptional
		if n.param == nil {
			n.param = &node{}
		}
		return n.param
	}
}

func foldLiteral(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// splitPath splits a request path into segments, dropping leading and
// trailing slashes. Inner empty segments are kept and match nothing but a
// wildcard.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Match returns every route whose template matches path, best first.
//
// Candidates are ordered by the kinds of the segments that consumed the
// path, compared position by position: a literal beats a constrained
// parameter, which beats a plain parameter, which beats a wildcard. At equal
// kinds, a candidate that needed no empty wildcard or absent optional
// segment wins, then traversal order (registration order at each node).
//
// Regex routes are only consulted when the tree produced no candidate.
func (t *Trie) Match(path string) []Candidate {
	m := &matcher{
		trie:     t,
		segments: splitPath(path),
	}
	m.slots = make([]slot, 0, len(m.segments)+1)

	if len(m.segments) == 0 {
		// The home route matches only terminals of the root itself.
		m.collect(t.root)
	} else {
		m.walk(t.root, 0)
	}

	if len(m.out) == 0 && len(t.regex) > 0 {
		m.matchRegex(path)
	}

	slices.SortStableFunc(m.out, compareCandidates)
	return m.out
}

// Walk calls fn for every inserted route in matching precedence order,
// followed by regex routes. A route with optional segments is reported
// once. Walk stops when fn returns false.
func (t *Trie) Walk(fn func(desc *route.Description, tmpl *route.Template) bool) {
	seen := make(map[*route.Description]struct{}, t.size)
	visit := func(term *terminal) bool {
		if _, dup := seen[term.route]; dup {
			return true
		}
		seen[term.route] = struct{}{}
		return fn(term.route, term.template)
	}

	if !t.root.walk(visit) {
		return
	}
	for _, term := range t.regex {
		if !visit(term) {
			return
		}
	}
}

func (n *node) walk(visit func(*terminal) bool) bool {
	for _, term := range n.terminals {
		if !visit(term) {
			return false
		}
	}

	keys := make([]string, 0, len(n.literals))
	for k := range n.literals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !n.literals[k].walk(visit) {
			return false
		}
	}
	for _, e := range n.constrained {
		if !e.node.walk(visit) {
			return false
		}
	}
	if n.param != nil && !n.param.walk(visit) {
		return false
	}
	if n.wildcard != nil && !n.wildcard.walk(visit) {
		return false
	}
	return true
}
