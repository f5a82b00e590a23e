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
	"errors"
	"fmt"
)

var (
	// ErrEmptyTemplate indicates a template with no text at all.
	ErrEmptyTemplate = errors.New("empty route template")

	// ErrEmptySegment indicates "//" inside a template.
	ErrEmptySegment = errors.New("empty segment")

	// ErrUnterminatedParameter indicates a "{" without a closing "}".
	ErrUnterminatedParameter = errors.New("unterminated parameter")

	// ErrMalformedSegment indicates text after "}" or a nested "{".
	ErrMalformedSegment = errors.New("malformed segment")

	// ErrInvalidParameterName indicates an empty or illegal parameter name.
	ErrInvalidParameterName = errors.New("invalid parameter name")

	// ErrDuplicateParameter indicates two captures with the same name.
	ErrDuplicateParameter = errors.New("duplicate parameter name")

	// ErrWildcardNotLast indicates a wildcard followed by further segments.
	ErrWildcardNotLast = errors.New("wildcard must be the last segment")

	// ErrOptionalNotTrailing indicates an optional parameter followed by a required segment.
	ErrOptionalNotTrailing = errors.New("optional parameters must be trailing")

	// ErrInvalidRegex indicates a raw regular expression template that does not compile.
	ErrInvalidRegex = errors.New("invalid regular expression template")

	// ErrInvalidMethod indicates an empty method or one containing non-token characters.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrMissingParameter indicates that Render was not given a required parameter.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrConstraintViolation indicates that a rendered value does not satisfy its constraint.
	ErrConstraintViolation = errors.New("value does not satisfy constraint")

	// ErrNotRenderable indicates a raw regular expression template, which cannot be rendered.
	ErrNotRenderable = errors.New("regular expression templates cannot be rendered")
)

// TemplateError reports a template that could not be parsed.
// It wraps one of the sentinel errors of this package or of the constraint
// package, so callers can use [errors.Is].
type TemplateError struct {
	Template string // Full template text
	Segment  string // Offending segment, empty when the error concerns the whole template
	Err      error
}

// Error returns the error message.
func (e *TemplateError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("route template %q: segment %q: %v", e.Template, e.Segment, e.Err)
	}
	return fmt.Sprintf("route template %q: %v", e.Template, e.Err)
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Err
}
