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

import "strings"

// Constraint is a constraint token bound to its matcher. It is produced by
// [Registry.Compile] once per template segment and reused for every request.
type Constraint struct {
	spec    string
	name    string
	args    []string
	hasArgs bool
	matcher Matcher
}

// Spec returns the token as written in the template.
func (c *Constraint) Spec() string { return c.spec }

// Name returns the lower-cased constraint name.
func (c *Constraint) Name() string { return c.name }

// Args returns the raw argument list.
func (c *Constraint) Args() []string { return c.args }

// Key returns a canonical form of the constraint. Two segments with equal
// keys accept exactly the same inputs.
func (c *Constraint) Key() string {
	if !c.hasArgs {
		return c.name
	}
	return c.name + "(" + strings.Join(c.args, ",") + ")"
}

// Convert validates segment and returns its typed value. A panicking custom
// matcher is reported as a non-match.
func (c *Constraint) Convert(segment string) (value any, ok bool) {
	defer func() {
		if recover() != nil {
			value, ok = nil, false
		}
	}()
	return c.matcher.Convert(c.args, segment)
}

// Match evaluates segment and captures the converted value under param.
func (c *Constraint) Match(segment, param string) SegmentMatch {
	v, ok := c.Convert(segment)
	if !ok {
		return NoMatch
	}
	return Matched(param, v)
}
