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
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidVersion indicates text that is not a major.minor[.build[.revision]] version.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a dotted version number captured by the version constraint.
// Build and Revision are -1 when absent.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// ParseVersion parses "major.minor[.build[.revision]]". Every component must
// be a non-negative base-10 integer.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, ErrInvalidVersion
	}

	nums := [4]int{-1, -1, -1, -1}
	for i, p := range parts {
		if p == "" || p[0] == '+' || p[0] == '-' {
			return Version{}, ErrInvalidVersion
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, ErrInvalidVersion
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// String formats the version using only the components that are present.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Minor))
	if v.Build >= 0 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(v.Build))
		if v.Revision >= 0 {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(v.Revision))
		}
	}
	return b.String()
}

// Compare returns -1, 0 or 1. Absent components sort before zero.
func (v Version) Compare(o Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{o.Major, o.Minor, o.Build, o.Revision}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
