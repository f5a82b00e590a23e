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
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Render builds a concrete path from the template and params. It is the
// inverse of matching: rendering the captures of a match yields a path that
// matches the same route with equal captures.
//
// Typed values are formatted canonically (int64 42 renders as "42", a
// time.Time under datetime(layout) renders with that layout). Rendered
// constrained values are checked against their constraint.
//
// Errors:
//   - [ErrNotRenderable] for regex templates
//   - [ErrMissingParameter] when a required parameter is absent
//   - [ErrConstraintViolation] when a value does not satisfy its constraint
func (t *Template) Render(params map[string]any) (string, error) {
	if t.regex != nil {
		return "", ErrNotRenderable
	}

	var b strings.Builder
	for _, seg := range t.segments {
		switch seg.Kind {
		case KindLiteral:
			b.WriteByte('/')
			b.WriteString(seg.Text)

		case KindParameter, KindConstrained:
			v, ok := params[seg.Name]
			if !ok || v == nil {
				return "", fmt.Errorf("%w: %s", ErrMissingParameter, seg.Name)
			}
			s, err := formatValue(seg, v)
			if err != nil {
				return "", err
			}
			if seg.Kind == KindConstrained {
				if _, ok := seg.Constraint.Convert(s); !ok {
					return "", fmt.Errorf("%w: %s=%q (%s)", ErrConstraintViolation, seg.Name, s, seg.Constraint.Spec())
				}
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(s))

		case KindOptional:
			v, ok := params[seg.Name]
			if !ok || v == nil {
				// Remaining segments are optional as well.
				return finish(&b), nil
			}
			s, err := formatValue(seg, v)
			if err != nil {
				return "", err
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(s))

		case KindWildcard:
			v, ok := params[seg.Name]
			if !ok || v == nil {
				return finish(&b), nil
			}
			s, err := formatValue(seg, v)
			if err != nil {
				return "", err
			}
			for part := range strings.SplitSeq(strings.Trim(s, "/"), "/") {
				if part == "" {
					continue
				}
				b.WriteByte('/')
				b.WriteString(url.PathEscape(part))
			}
		}
	}

	return finish(&b), nil
}

func finish(b *strings.Builder) string {
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// formatValue converts a captured value back to segment text.
func formatValue(seg Segment, v any) (string, error) {
	if tm, ok := v.(time.Time); ok {
		if seg.Constraint != nil && len(seg.Constraint.Args()) > 0 {
			return tm.Format(seg.Constraint.Args()[0]), nil
		}
		return tm.Format(time.RFC3339), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("parameter %s: %w", seg.Name, err)
	}
	return s, nil
}
