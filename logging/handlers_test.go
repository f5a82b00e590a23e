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

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *slog.HandlerOptions
		level    slog.Level
		expected bool
	}{
		{"default level INFO allows INFO", nil, slog.LevelInfo, true},
		{"default level INFO allows ERROR", nil, slog.LevelError, true},
		{"default level INFO rejects DEBUG", nil, slog.LevelDebug, false},
		{"custom level DEBUG allows DEBUG", &slog.HandlerOptions{Level: slog.LevelDebug}, slog.LevelDebug, true},
		{"custom level WARN rejects INFO", &slog.HandlerOptions{Level: slog.LevelWarn}, slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newConsoleHandler(&bytes.Buffer{}, tt.opts)
			assert.Equal(t, tt.expected, h.Enabled(context.Background(), tt.level))
		})
	}
}

func TestConsoleHandler_Handle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, nil)).
		With("service", "gateway").
		WithGroup("route")

	logger.Warn("slow match", "path", "/a", "took", 2*time.Millisecond, slog.Group("params", "id", 7))

	out := buf.String()
	assert.Contains(t, out, colorYellow)
	assert.Contains(t, out, "slow match")
	assert.Contains(t, out, " service=gateway")
	assert.Contains(t, out, " route.path=/a")
	assert.Contains(t, out, " route.took=2ms")
	assert.Contains(t, out, " route.params.id=7")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestConsoleHandler_ReplaceAttr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithConsoleHandler(), WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "drop" {
			return slog.Attr{}
		}
		return a
	}))

	l.Info("msg", "drop", "x", "password", "hunter2", "keep", true)

	out := buf.String()
	assert.NotContains(t, out, "drop=")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "keep=true")
}

func TestRecordSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithConsoleHandler(), WithSource(true))
	l.Logger().Info("where")
	require.Contains(t, buf.String(), "handlers_test.go:")
}

func TestPrettyHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithPrettyHandler(), WithServiceName("gateway"))

	l.Debug("hidden")
	l.Info("route matched", "password", "hunter2", "route.name", "users")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "route matched")
	assert.Contains(t, out, "route.name=users")
	assert.Contains(t, out, "service.name=gateway")
	assert.Contains(t, out, "REDACTED")
	assert.NotContains(t, out, "hunter2")
}

func TestPrettyHandler_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithPrettyHandler())
	require.NoError(t, l.SetLevel(LevelDebug))

	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	buf.Reset()
	require.NoError(t, l.SetLevel(LevelError))
	l.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestPrettyHandler_DropsEmptyReplacement(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithPrettyHandler(), WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "noise" {
			return slog.Attr{}
		}
		return a
	}))

	l.With("noise", 1).Info("quiet", "noise", 2, "kept", true)
	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "kept=true")
}
