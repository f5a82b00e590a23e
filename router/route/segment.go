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

import "pathwise.dev/router/constraint"

// Kind classifies a template segment. The numeric order is the matching
// precedence: lower kinds are tried first and win ties.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindConstrained
	KindParameter
	KindOptional
	KindWildcard
	KindRegex
)

// WildcardName is the capture name of an unnamed "*" wildcard.
const WildcardName = "*"

var kindNames = [...]string{
	KindLiteral:     "literal",
	KindConstrained: "constrained",
	KindParameter:   "parameter",
	KindOptional:    "optional",
	KindWildcard:    "wildcard",
	KindRegex:       "regex",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Segment is one parsed unit of a route template.
type Segment struct {
	Kind       Kind
	Text       string                 // Literal text (KindLiteral) or raw segment
	Name       string                 // Capture name (parameters and wildcards)
	Constraint *constraint.Constraint // Bound constraint (KindConstrained)
	Default    string                 // Default value (KindOptional)
	HasDefault bool
}

// Captures reports whether the segment produces a captured value.
func (s Segment) Captures() bool {
	return s.Kind != KindLiteral
}
