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
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// builtins returns the matchers installed by [Default].
func builtins() []Matcher {
	return []Matcher{
		NewFunc("int", 0, 0, convertInt),
		NewFunc("long", 0, 0, convertInt),
		NewFunc("decimal", 0, 0, convertDecimal),
		NewFunc("bool", 0, 0, convertBool),
		NewFunc("guid", 0, 0, convertGUID),
		dateTimeMatcher{},
		NewFunc("alpha", 0, 0, convertAlpha),
		NewFunc("version", 0, 0, convertVersion),
		NewFunc("length", 1, 2, convertLength),
		NewFunc("minlength", 1, 1, convertMinLength),
		NewFunc("maxlength", 1, 1, convertMaxLength),
		NewFunc("min", 1, 1, convertMin),
		NewFunc("max", 1, 1, convertMax),
		NewFunc("range", 2, 2, convertRange),
	}
}

// parseInt parses a base-10 64-bit integer. A leading sign is accepted;
// whitespace and grouping separators are not, so "%2042" never matches.
func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// parseBound parses an integer constraint argument such as the 10 in
// "max( 10 )". Arguments come from route templates and may be padded.
func parseBound(s string) (int64, bool) {
	return parseInt(strings.TrimSpace(s))
}

// intArgs parses every argument as an integer.
func intArgs(args []string) ([]int64, bool) {
	out := make([]int64, len(args))
	for i, a := range args {
		n, ok := parseBound(a)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func convertInt(_ []string, segment string) (any, bool) {
	n, ok := parseInt(segment)
	if !ok {
		return nil, false
	}
	return n, true
}

func convertDecimal(_ []string, segment string) (any, bool) {
	// Exponent notation is not a decimal literal.
	if segment == "" || strings.ContainsAny(segment, "eE \t") {
		return nil, false
	}
	d, err := decimal.NewFromString(segment)
	if err != nil {
		return nil, false
	}
	return d, true
}

func convertBool(_ []string, segment string) (any, bool) {
	switch {
	case strings.EqualFold(segment, "true"):
		return true, true
	case strings.EqualFold(segment, "false"):
		return false, true
	default:
		return nil, false
	}
}

func convertGUID(_ []string, segment string) (any, bool) {
	id, err := uuid.Parse(segment)
	if err != nil {
		return nil, false
	}
	return id, true
}

// dateTimeMatcher takes its optional layout verbatim so that layouts such as
// "Jan 2, 2006" survive argument splitting.
type dateTimeMatcher struct{}

func (dateTimeMatcher) Name() string { return "datetime" }

func (dateTimeMatcher) Arity() (int, int) { return 0, 1 }

func (dateTimeMatcher) RawArgs() bool { return true }

func (dateTimeMatcher) Convert(args []string, segment string) (any, bool) {
	if len(args) == 0 {
		t, err := cast.ToTimeE(segment)
		if err != nil {
			return nil, false
		}
		return t, true
	}

	t, err := time.Parse(args[0], segment)
	if err != nil {
		return nil, false
	}
	return t, true
}

func convertAlpha(_ []string, segment string) (any, bool) {
	if segment == "" {
		return nil, false
	}
	for _, r := range segment {
		if !unicode.IsLetter(r) {
			return nil, false
		}
	}
	return segment, true
}

func convertVersion(_ []string, segment string) (any, bool) {
	if segment != strings.TrimSpace(segment) {
		return nil, false
	}
	v, err := ParseVersion(segment)
	if err != nil {
		return nil, false
	}
	return v, true
}

func convertLength(args []string, segment string) (any, bool) {
	bounds, ok := intArgs(args)
	if !ok {
		return nil, false
	}
	lower, upper := int64(0), bounds[0]
	if len(bounds) == 2 {
		lower, upper = bounds[0], bounds[1]
	}
	if lower < 0 || upper < lower {
		return nil, false
	}
	n := int64(utf8.RuneCountInString(segment))
	if n < lower || n > upper {
		return nil, false
	}
	return segment, true
}

func convertMinLength(args []string, segment string) (any, bool) {
	bound, ok := parseBound(args[0])
	if !ok || int64(utf8.RuneCountInString(segment)) < bound {
		return nil, false
	}
	return segment, true
}

func convertMaxLength(args []string, segment string) (any, bool) {
	bound, ok := parseBound(args[0])
	if !ok || int64(utf8.RuneCountInString(segment)) > bound {
		return nil, false
	}
	return segment, true
}

func convertMin(args []string, segment string) (any, bool) {
	bound, ok := parseBound(args[0])
	if !ok {
		return nil, false
	}
	n, ok := parseInt(segment)
	if !ok || n < bound {
		return nil, false
	}
	return n, true
}

func convertMax(args []string, segment string) (any, bool) {
	bound, ok := parseBound(args[0])
	if !ok {
		return nil, false
	}
	n, ok := parseInt(segment)
	if !ok || n > bound {
		return nil, false
	}
	return n, true
}

func convertRange(args []string, segment string) (any, bool) {
	bounds, ok := intArgs(args)
	if !ok {
		return nil, false
	}
	n, ok := parseInt(segment)
	if !ok || n < bounds[0] || n > bounds[1] {
		return nil, false
	}
	return n, true
}
