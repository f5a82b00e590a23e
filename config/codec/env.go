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

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// TypeEnvVar identifies the environment variable codec.
const TypeEnvVar Type = "env_var"

// EnvSeparator separates nesting levels in variable names, so single
// underscores remain part of a key: ROUTER__CASE_SENSITIVE is
// router.case_sensitive.
const EnvSeparator = "__"

func init() {
	RegisterEncoder(TypeEnvVar, EnvVarCodec{})
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes KEY=value lines into a nested map. Keys are
// lower-cased. Blank lines and lines starting with # are ignored.
type EnvVarCodec struct{}

// Encode flattens a nested map into sorted KEY=value lines.
func (EnvVarCodec) Encode(v any) ([]byte, error) {
	var m map[string]any
	switch t := v.(type) {
	case map[string]any:
		m = t
	case *map[string]any:
		m = *t
	default:
		return nil, fmt.Errorf("EnvVarCodec.Encode: expected map[string]any, got %T", v)
	}

	lines := make([]string, 0, len(m))
	if err := flattenEnv("", m, &lines); err != nil {
		return nil, err
	}
	slices.Sort(lines)
	return []byte(strings.Join(lines, "\n")), nil
}

func flattenEnv(prefix string, m map[string]any, lines *[]string) error {
	for k, v := range m {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + EnvSeparator + key
		}
		switch t := v.(type) {
		case map[string]any:
			if err := flattenEnv(key, t, lines); err != nil {
				return err
			}
		case []any:
			return fmt.Errorf("EnvVarCodec.Encode: lists cannot be written as variables (%s)", key)
		default:
			*lines = append(*lines, fmt.Sprintf("%s=%v", key, t))
		}
	}
	return nil
}

// Decode parses KEY=value lines into the *map[string]any pointed to by v.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		parts := make([]string, 0, 4)
		for part := range strings.SplitSeq(strings.ToLower(strings.TrimSpace(key)), EnvSeparator) {
			if part = strings.Trim(part, "_"); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				// A scalar set by an earlier line is replaced by the nested map.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return errors.Join(errors.New("EnvVarCodec.Decode: read failed"), err)
	}

	*ptr = conf
	return nil
}
