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

package route

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pathwise.dev/router/constraint"
)

// Template is a parsed route path. It is immutable after [Parse] returns.
type Template struct {
	raw      string
	segments []Segment
	regex    *regexp.Regexp
	params   []string
}

// Parse parses a route template. Constraint names are resolved against
// registry, or against the built-in constraints when registry is nil.
//
// Errors are always [*TemplateError].
func Parse(path string, registry *constraint.Registry) (*Template, error) {
	if registry == nil {
		registry = constraint.Default()
	}
	if path == "" {
		return nil, &TemplateError{Template: path, Err: ErrEmptyTemplate}
	}

	if strings.HasPrefix(path, "^") {
		return parseRegex(path)
	}

	t := &Template{raw: path}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return t, nil
	}

	parts := strings.Split(trimmed, "/")
	t.segments = make([]Segment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	optionalSeen := false

	for i, part := range parts {
		seg, err := parseSegment(part, registry)
		if err != nil {
			return nil, &TemplateError{Template: path, Segment: part, Err: err}
		}

		switch {
		case seg.Kind == KindWildcard && i != len(parts)-1:
			return nil, &TemplateError{Template: path, Segment: part, Err: ErrWildcardNotLast}
		case optionalSeen && seg.Kind != KindOptional && seg.Kind != KindWildcard:
			return nil, &TemplateError{Template: path, Segment: part, Err: ErrOptionalNotTrailing}
		case seg.Kind == KindOptional:
			optionalSeen = true
		}

		if seg.Captures() {
			if _, dup := seen[seg.Name]; dup {
				return nil, &TemplateError{Template: path, Segment: part, Err: ErrDuplicateParameter}
			}
			seen[seg.Name] = struct{}{}
			t.params = append(t.params, seg.Name)
		}
		t.segments = append(t.segments, seg)
	}

	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level templates.
func MustParse(path string, registry *constraint.Registry) *Template {
	t, err := Parse(path, registry)
	if err != nil {
		panic(err)
	}
	return t
}

func parseRegex(path string) (*Template, error) {
	re, err := regexp.Compile(path)
	if err != nil {
		return nil, &TemplateError{Template: path, Err: fmt.Errorf("%w: %w", ErrInvalidRegex, err)}
	}
	t := &Template{raw: path, regex: re}
	for _, name := range re.SubexpNames() {
		if name != "" && !slices.Contains(t.params, name) {
			t.params = append(t.params, name)
		}
	}
	return t, nil
}

func parseSegment(part string, registry *constraint.Registry) (Segment, error) {
	if part == "" {
		return Segment{}, ErrEmptySegment
	}
	if part == "*" {
		return Segment{Kind: KindWildcard, Text: part, Name: WildcardName}, nil
	}
	if part[0] != '{' {
		return Segment{Kind: KindLiteral, Text: part}, nil
	}

	closing := strings.IndexByte(part, '}')
	switch {
	case closing < 0:
		return Segment{}, ErrUnterminatedParameter
	case closing != len(part)-1:
		return Segment{}, ErrMalformedSegment
	}

	inner := part[1:closing]
	if strings.ContainsRune(inner, '{') {
		return Segment{}, ErrMalformedSegment
	}

	if name, spec, ok := strings.Cut(inner, ":"); ok {
		if !validName(name) {
			return Segment{}, ErrInvalidParameterName
		}
		c, err := registry.Compile(spec)
		if err != nil {
			return Segment{}, err
		}
		return Segment{Kind: KindConstrained, Text: part, Name: name, Constraint: c}, nil
	}

	if name, ok := strings.CutSuffix(inner, "*"); ok {
		if !validName(name) {
			return Segment{}, ErrInvalidParameterName
		}
		return Segment{Kind: KindWildcard, Text: part, Name: name}, nil
	}

	if name, def, ok := strings.Cut(inner, "?"); ok {
		if !validName(name) {
			return Segment{}, ErrInvalidParameterName
		}
		return Segment{Kind: KindOptional, Text: part, Name: name, Default: def, HasDefault: def != ""}, nil
	}

	if !validName(inner) {
		return Segment{}, ErrInvalidParameterName
	}
	return Segment{Kind: KindParameter, Text: part, Name: inner}, nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "{}*?:/ \t")
}

// String returns the template text as registered.
func (t *Template) String() string { return t.raw }

// Segments returns a copy of the parsed segments. Regex templates have none.
func (t *Template) Segments() []Segment { return slices.Clone(t.segments) }

// Len returns the number of segments.
func (t *Template) Len() int { return len(t.segments) }

// Segment returns the i-th segment.
func (t *Template) Segment(i int) Segment { return t.segments[i] }

// IsRegex reports whether the template is a raw regular expression.
func (t *Template) IsRegex() bool { return t.regex != nil }

// Regexp returns the compiled expression of a regex template, or nil.
func (t *Template) Regexp() *regexp.Regexp { return t.regex }

// Params returns the capture names in template order.
func (t *Template) Params() []string { return slices.Clone(t.params) }

// IsStatic reports whether every segment is a literal.
func (t *Template) IsStatic() bool {
	if t.regex != nil {
		return false
	}
	for _, s := range t.segments {
		if s.Kind != KindLiteral {
			return false
		}
	}
	return true
}

// FirstOptional returns the index of the first optional segment, or Len()
// when there is none.
func (t *Template) FirstOptional() int {
	for i, s := range t.segments {
		if s.Kind == KindOptional {
			return i
		}
	}
	return len(t.segments)
}
