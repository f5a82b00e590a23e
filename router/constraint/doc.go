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

// Package constraint provides the typed segment constraints used by the
// pathwise router.
//
// A constraint is referenced from a route template as {name:constraint} or
// {name:constraint(arg1,arg2)}. It validates a single path segment and
// converts it to a typed value that is stored in the route captures.
//
// # Built-in Constraints
//
//	int, long            64-bit signed integer (int64)
//	decimal              decimal literal (decimal.Decimal)
//	bool                 "true" or "false", case-insensitive (bool)
//	guid                 UUID text (uuid.UUID)
//	datetime             date/time, optional Go layout: datetime(2006-01-02) (time.Time)
//	alpha                letters only (string)
//	version              major.minor[.build[.revision]] (Version)
//	length(max)          string of at most max characters (string)
//	length(min,max)      string of min..max characters (string)
//	minlength(n)         string of at least n characters (string)
//	maxlength(n)         string of at most n characters (string)
//	min(n), max(n)       integer bounded on one side (int64)
//	range(min,max)       integer within inclusive bounds (int64)
//
// # Failure Semantics
//
// Constraint evaluation never panics and never returns an error at match
// time. Malformed arguments, unparsable segments and out-of-bounds values all
// produce [NoMatch]. Configuration problems (unknown constraint names, a
// parameterized constraint without arguments) are reported by
// [Registry.Compile] when a template is registered.
//
// # Custom Constraints
//
// Custom constraints implement [Matcher] and are added with
// [Registry.Register] before the registry is frozen:
//
//	reg := constraint.Default()
//	err := reg.Register(constraint.NewFunc("even", 0, 0, func(_ []string, s string) (any, bool) {
//	    n, err := strconv.ParseInt(s, 10, 64)
//	    return n, err == nil && n%2 == 0
//	}))
//
// A registry is read-only once frozen and safe for concurrent use without
// locking.
package constraint
