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

// SegmentMatch is the outcome of evaluating one path segment against one
// constraint.
type SegmentMatch struct {
	IsMatch  bool
	Captured map[string]any
}

// NoMatch is the distinguished non-matching result. Its capture map is empty.
var NoMatch = SegmentMatch{}

// Matched returns a successful SegmentMatch capturing value under param.
func Matched(param string, value any) SegmentMatch {
	return SegmentMatch{
		IsMatch:  true,
		Captured: map[string]any{param: value},
	}
}

// Value returns the captured value for param.
func (m SegmentMatch) Value(param string) (any, bool) {
	if !m.IsMatch {
		return nil, false
	}
	v, ok := m.Captured[param]
	return v, ok
}
