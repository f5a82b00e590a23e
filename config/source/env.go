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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"pathwise.dev/config/codec"
)

// OSEnvVar loads variables starting with a prefix. The prefix is stripped
// and the remainder decoded by [codec.EnvVarCodec]:
//
//	PATHWISE_ROUTER__CASE_SENSITIVE=true -> router.case_sensitive = "true"
type OSEnvVar struct {
	prefix  string
	environ func() []string
}

// NewOSEnvVar creates an environment source for prefix.
func NewOSEnvVar(prefix string) *OSEnvVar {
	return &OSEnvVar{prefix: prefix, environ: os.Environ}
}

// Load decodes the matching variables.
func (e *OSEnvVar) Load(context.Context) (map[string]any, error) {
	env := e.environ()
	lines := make([]string, 0, len(env))
	for _, kv := range env {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var conf map[string]any
	if err := (codec.EnvVarCodec{}).Decode([]byte(strings.Join(lines, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}

func (e *OSEnvVar) String() string {
	return "env:" + e.prefix
}
