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

package router

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"pathwise.dev/router/constraint"
)

// Params holds the values captured by a match. Constrained parameters hold
// the typed value produced by their constraint (int64, bool, decimal.Decimal,
// uuid.UUID, time.Time, constraint.Version, string); other parameters and
// wildcards hold strings.
type Params map[string]any

// Get returns the raw captured value.
func (p Params) Get(name string) (any, bool) {
	v, ok := p[name]
	return v, ok
}

// Has reports whether name was captured.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String returns the captured value formatted as a string, or "" when absent.
func (p Params) String(name string) string {
	v, ok := p[name]
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// Int64 returns the captured value as an int64. String captures are parsed.
func (p Params) Int64(name string) (int64, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	if n, ok := v.(int64); ok {
		return n, nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return n, nil
}

// Bool returns the captured value as a bool.
func (p Params) Bool(name string) (bool, error) {
	v, ok := p[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return b, nil
}

// Decimal returns the captured value as a decimal.
func (p Params) Decimal(name string) (decimal.Decimal, error) {
	v, ok := p[name]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	if d, ok := v.(decimal.Decimal); ok {
		return d, nil
	}
	d, err := decimal.NewFromString(cast.ToString(v))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return d, nil
}

// UUID returns the captured value as a UUID.
func (p Params) UUID(name string) (uuid.UUID, error) {
	v, ok := p[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	if id, ok := v.(uuid.UUID); ok {
		return id, nil
	}
	id, err := uuid.Parse(cast.ToString(v))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return id, nil
}

// Time returns the captured value as a time.
func (p Params) Time(name string) (time.Time, error) {
	v, ok := p[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return t, nil
}

// Version returns the captured value as a version.
func (p Params) Version(name string) (constraint.Version, error) {
	v, ok := p[name]
	if !ok {
		return constraint.Version{}, fmt.Errorf("%w: %s", ErrParamMissing, name)
	}
	if ver, ok := v.(constraint.Version); ok {
		return ver, nil
	}
	ver, err := constraint.ParseVersion(cast.ToString(v))
	if err != nil {
		return constraint.Version{}, fmt.Errorf("%w: %s (%w)", ErrParamInvalid, name, err)
	}
	return ver, nil
}
