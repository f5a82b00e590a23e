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

import "errors"

var (
	// ErrUnknownConstraint indicates that no registered matcher recognizes the constraint name.
	ErrUnknownConstraint = errors.New("unknown constraint")

	// ErrMissingArguments indicates that a parameterized constraint was referenced without "(...)".
	ErrMissingArguments = errors.New("constraint requires arguments")

	// ErrUnexpectedArguments indicates that arguments were passed to a constraint that takes none.
	ErrUnexpectedArguments = errors.New("constraint does not take arguments")

	// ErrArgumentCount indicates that a constraint received an unsupported number of arguments.
	ErrArgumentCount = errors.New("wrong number of constraint arguments")

	// ErrMalformedSpec indicates an unbalanced or otherwise unparsable constraint token.
	ErrMalformedSpec = errors.New("malformed constraint")

	// ErrRegistryFrozen indicates that a matcher was registered after the registry was frozen.
	ErrRegistryFrozen = errors.New("constraint registry is frozen")

	// ErrDuplicateConstraint indicates that a matcher with the same name is already registered.
	ErrDuplicateConstraint = errors.New("constraint already registered")

	// ErrInvalidMatcher indicates a nil matcher or a matcher with an empty name.
	ErrInvalidMatcher = errors.New("invalid constraint matcher")
)
