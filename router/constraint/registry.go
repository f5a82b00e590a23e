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

package constraint

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

// Matcher recognizes one constraint name and converts path segments that
// satisfy it.
//
// Convert must not retain args or segment and must be safe for concurrent use.
type Matcher interface {
	// Name returns the constraint name as written in templates.
	Name() string

	// Arity reports how many arguments the constraint accepts. A minimum
	// above zero makes the "(...)" argument list mandatory; a maximum of zero
	// forbids it.
	Arity() (minArgs, maxArgs int)

	// Convert validates segment and returns its typed value.
	// It reports false for any segment or argument it cannot accept.
	Convert(args []string, segment string) (any, bool)
}

// rawArgumenter is implemented by matchers whose argument list must not be
// split on commas.
type rawArgumenter interface {
	RawArgs() bool
}

// ConvertFunc is the conversion signature used by [NewFunc].
type ConvertFunc func(args []string, segment string) (any, bool)

type funcMatcher struct {
	name    string
	minArgs int
	maxArgs int
	fn      ConvertFunc
}

// NewFunc returns a Matcher backed by fn.
func NewFunc(name string, minArgs, maxArgs int, fn ConvertFunc) Matcher {
	return &funcMatcher{name: name, minArgs: minArgs, maxArgs: maxArgs, fn: fn}
}

func (m *funcMatcher) Name() string { return m.name }

func (m *funcMatcher) Arity() (int, int) { return m.minArgs, m.maxArgs }

func (m *funcMatcher) Convert(args []string, segment string) (any, bool) {
	return m.fn(args, segment)
}

// Registry holds the constraint matchers known to a router.
//
// Matchers are registered during startup. After [Registry.Freeze] the
// registry is read-only and may be shared by concurrent readers without
// synchronization.
type Registry struct {
	matchers map[string]Matcher
	names    []string
	frozen   atomic.Bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{matchers: make(map[string]Matcher)}
}

// Default returns a registry pre-populated with the built-in constraints.
func Default() *Registry {
	r := New()
	for _, m := range builtins() {
		// Built-in names are unique, Register cannot fail here.
		_ = r.Register(m)
	}
	return r
}

// Register adds m to the registry.
//
// Errors:
//   - [ErrRegistryFrozen] after Freeze
//   - [ErrInvalidMatcher] for a nil matcher or empty name
//   - [ErrDuplicateConstraint] when the name is already taken
func (r *Registry) Register(m Matcher) error {
	if r.frozen.Load() {
		return ErrRegistryFrozen
	}
	if m == nil || strings.TrimSpace(m.Name()) == "" {
		return ErrInvalidMatcher
	}
	key := strings.ToLower(m.Name())
	if _, exists := r.matchers[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateConstraint, m.Name())
	}
	r.matchers[key] = m
	r.names = append(r.names, key)
	return nil
}

// Freeze makes the registry read-only. Further calls to Register fail.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Names returns the registered constraint names in sorted order.
func (r *Registry) Names() []string {
	names := slices.Clone(r.names)
	slices.Sort(names)
	return names
}

// Matches reports whether a registered matcher recognizes the name in spec.
// Names compare case-insensitively; for "name(args)" only the portion before
// "(" is considered.
func (r *Registry) Matches(spec string) bool {
	_, ok := r.Lookup(spec)
	return ok
}

// Lookup returns the matcher recognizing the name in spec.
func (r *Registry) Lookup(spec string) (Matcher, bool) {
	name := spec
	if i := strings.IndexByte(spec, '('); i >= 0 {
		name = spec[:i]
	}
	m, ok := r.matchers[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Compile parses spec and binds it to its matcher, validating the argument
// count. Compile is called when a template is registered, so its errors are
// configuration errors.
func (r *Registry) Compile(spec string) (*Constraint, error) {
	name, args, hasArgs, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	m, ok := r.matchers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}

	if raw, ok := m.(rawArgumenter); ok && raw.RawArgs() && len(args) > 1 {
		args = []string{strings.Join(args, ",")}
	}

	minArgs, maxArgs := m.Arity()
	switch {
	case !hasArgs && minArgs > 0:
		return nil, fmt.Errorf("%w: %s", ErrMissingArguments, name)
	case hasArgs && maxArgs == 0:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedArguments, name)
	case hasArgs && (len(args) < minArgs || len(args) > maxArgs):
		return nil, fmt.Errorf("%w: %s takes %d to %d, got %d", ErrArgumentCount, name, minArgs, maxArgs, len(args))
	}

	return &Constraint{
		spec:    spec,
		name:    strings.ToLower(name),
		args:    args,
		hasArgs: hasArgs,
		matcher: m,
	}, nil
}

// GetMatch evaluates segment against spec and captures the converted value
// under param. Any failure, including an invalid spec, yields [NoMatch].
func (r *Registry) GetMatch(spec, segment, param string) SegmentMatch {
	c, err := r.Compile(spec)
	if err != nil {
		return NoMatch
	}
	return c.Match(segment, param)
}

// ParseSpec splits a constraint token into its name and arguments.
// hasArgs reports whether a "(...)" list was present, even if empty.
// Arguments are split on "," and are not trimmed.
func ParseSpec(spec string) (name string, args []string, hasArgs bool, err error) {
	spec = strings.TrimSpace(spec)
	open := strings.IndexByte(spec, '(')
	if open < 0 {
		if spec == "" || strings.ContainsRune(spec, ')') {
			return "", nil, false, fmt.Errorf("%w: %q", ErrMalformedSpec, spec)
		}
		return spec, nil, false, nil
	}

	if open == 0 || spec[len(spec)-1] != ')' {
		return "", nil, false, fmt.Errorf("%w: %q", ErrMalformedSpec, spec)
	}

	name = strings.TrimSpace(spec[:open])
	inner := spec[open+1 : len(spec)-1]
	if inner == "" {
		return name, []string{}, true, nil
	}
	return name, strings.Split(inner, ","), true, nil
}
