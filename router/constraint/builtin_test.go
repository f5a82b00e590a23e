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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinConstraints(t *testing.T) {
	t.Parallel()

	reg := Default()

	tests := []struct {
		name    string
		spec    string
		segment string
		match   bool
		want    any
	}{
		{"int accepts digits", "int", "42", true, int64(42)},
		{"int accepts negative", "int", "-7", true, int64(-7)},
		{"int rejects letters", "int", "abc", false, nil},
		{"int rejects overflow", "int", "99999999999999999999", false, nil},
		{"long accepts large", "long", "9223372036854775807", true, int64(9223372036854775807)},
		{"bool true", "bool", "true", true, true},
		{"bool mixed case", "bool", "FaLsE", true, false},
		{"bool rejects 1", "bool", "1", false, nil},
		{"alpha letters", "alpha", "ABCdéf", true, "ABCdéf"},
		{"alpha rejects digits", "alpha", "abc1", false, nil},
		{"alpha rejects empty", "alpha", "", false, nil},
		{"length max", "length(3)", "abc", true, "abc"},
		{"length max exceeded", "length(3)", "abcd", false, nil},
		{"length range lower", "length(2,4)", "ab", true, "ab"},
		{"length range upper", "length(2,4)", "abcd", true, "abcd"},
		{"length range short", "length(2,4)", "a", false, nil},
		{"length range long", "length(2,4)", "abcde", false, nil},
		{"length counts runes", "length(2)", "éé", true, "éé"},
		{"length malformed args", "length(x,4)", "abc", false, nil},
		{"minlength ok", "minlength(2)", "ab", true, "ab"},
		{"minlength short", "minlength(2)", "a", false, nil},
		{"maxlength ok", "maxlength(2)", "ab", true, "ab"},
		{"maxlength long", "maxlength(2)", "abc", false, nil},
		{"min ok", "min(10)", "10", true, int64(10)},
		{"min below", "min(10)", "9", false, nil},
		{"min not integer", "min(10)", "ten", false, nil},
		{"max ok", "max(10)", "10", true, int64(10)},
		{"max above", "max(10)", "11", false, nil},
		{"range lower bound", "range(1,10)", "1", true, int64(1)},
		{"range upper bound", "range(1,10)", "10", true, int64(10)},
		{"range below", "range(1,10)", "0", false, nil},
		{"range above", "range(1,10)", "11", false, nil},
		{"range spaced args", "range( 1 , 10 )", "5", true, int64(5)},
		{"range malformed args", "range(a,10)", "5", false, nil},
		{"int rejects padded segment", "int", " 42", false, nil},
		{"int rejects trailing space", "int", "42 ", false, nil},
		{"min rejects padded segment", "min( 10 )", " 12", false, nil},
		{"range rejects padded segment", "range(1,10)", "5\t", false, nil},
		{"bool rejects padded segment", "bool", " true", false, nil},
		{"decimal rejects padded segment", "decimal", "1.5 ", false, nil},
		{"version rejects padded segment", "version", " 1.2", false, nil},
		{"min spaced arg", "min( 10 )", "12", true, int64(12)},
		{"version two parts", "version", "1.2", true, Version{Major: 1, Minor: 2, Build: -1, Revision: -1}},
		{"version four parts", "version", "1.2.3.4", true, Version{Major: 1, Minor: 2, Build: 3, Revision: 4}},
		{"version one part", "version", "1", false, nil},
		{"version five parts", "version", "1.2.3.4.5", false, nil},
		{"version negative", "version", "1.-2", false, nil},
		{"case-insensitive name", "INT", "5", true, int64(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := reg.GetMatch(tt.spec, tt.segment, "p")
			assert.Equal(t, tt.match, m.IsMatch)
			if !tt.match {
				assert.Empty(t, m.Captured)
				return
			}
			assert.Equal(t, tt.want, m.Captured["p"])
		})
	}
}

func TestDecimalConstraint(t *testing.T) {
	t.Parallel()

	reg := Default()

	m := reg.GetMatch("decimal", "12.50", "price")
	require.True(t, m.IsMatch)
	d, ok := m.Captured["price"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	assert.True(t, reg.GetMatch("decimal", "-3", "price").IsMatch)
	assert.False(t, reg.GetMatch("decimal", "1e5", "price").IsMatch)
	assert.False(t, reg.GetMatch("decimal", "abc", "price").IsMatch)
}

func TestGUIDConstraint(t *testing.T) {
	t.Parallel()

	reg := Default()
	id := uuid.New()

	m := reg.GetMatch("guid", id.String(), "id")
	require.True(t, m.IsMatch)
	assert.Equal(t, id, m.Captured["id"])

	assert.False(t, reg.GetMatch("guid", "not-a-guid", "id").IsMatch)
}

func TestDateTimeConstraint(t *testing.T) {
	t.Parallel()

	reg := Default()

	t.Run("default parse", func(t *testing.T) {
		t.Parallel()
		m := reg.GetMatch("datetime", "2024-03-01", "d")
		require.True(t, m.IsMatch)
		got, ok := m.Captured["d"].(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, time.March, got.Month())
	})

	t.Run("custom layout", func(t *testing.T) {
		t.Parallel()
		m := reg.GetMatch("datetime(20060102)", "20240301", "d")
		require.True(t, m.IsMatch)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), m.Captured["d"])

		assert.False(t, reg.GetMatch("datetime(20060102)", "2024-03-01", "d").IsMatch)
	})

	t.Run("layout with comma", func(t *testing.T) {
		t.Parallel()
		m := reg.GetMatch("datetime(Jan 2, 2006)", "Mar 1, 2024", "d")
		assert.True(t, m.IsMatch)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		assert.False(t, reg.GetMatch("datetime", "yesterday", "d").IsMatch)
	})
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"1.0", "2.5.1", "10.20.30.40"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}

	a, _ := ParseVersion("1.2")
	b, _ := ParseVersion("1.2.0")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}
