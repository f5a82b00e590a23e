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
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathwise.dev/router"
	"pathwise.dev/router/route"
)

func TestNew_JSONWithServiceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(
		WithOutput(&buf),
		WithServiceName("gateway"),
		WithServiceVersion("1.2.0"),
		WithEnvironment("test"),
	)

	l.Info("hello", "token", "abc", "n", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "gateway", entry["service.name"])
	assert.Equal(t, "1.2.0", entry["service.version"])
	assert.Equal(t, "test", entry["deployment.environment"])
	assert.Equal(t, "***REDACTED***", entry["token"])
	assert.InDelta(t, 3, entry["n"], 0)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(WithOutput(nil))
	require.ErrorIs(t, err, ErrNilOutput)

	_, err = New(WithCustomLogger(nil))
	require.ErrorIs(t, err, ErrNilLogger)

	_, err = New(WithHandlerType("xml"))
	require.ErrorIs(t, err, ErrInvalidHandler)

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestSetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithTextHandler())

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, l.SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, l.Level())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")

	custom := MustNew(WithCustomLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.ErrorIs(t, custom.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHandlerType(t *testing.T) {
	t.Parallel()

	got, err := ParseHandlerType("Console")
	require.NoError(t, err)
	assert.Equal(t, ConsoleHandler, got)

	got, err = ParseHandlerType(" pretty ")
	require.NoError(t, err)
	assert.Equal(t, PrettyHandler, got)

	_, err = ParseHandlerType("xml")
	require.ErrorIs(t, err, ErrInvalidHandler)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithTextHandler(), WithDebugLevel())

	r := router.MustNew(
		router.WithDiagnostics(Diagnostics(l.Logger())),
		router.WithObserver(Resolutions(l.Logger())),
		router.WithRoutes(route.Description{Method: "GET", Path: "/a/{id:int}"}),
	)
	r.Build()
	r.Resolve("GET", "/a/1")

	out := buf.String()
	assert.Contains(t, out, "kind=route_registered")
	assert.Contains(t, out, "level=INFO msg=\"route table published\"")
	assert.Contains(t, out, "outcome=matched")
	assert.Contains(t, out, "route=/a/{id:int}")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestWithJSONHandler_OverridesEarlierChoice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithTextHandler(), WithJSONHandler())
	l.Info("switched", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "switched", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

//nolint:paralleltest // replaces the process-wide slog default
func TestWithGlobalLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithGlobalLogger(), WithServiceName("global"))
	assert.Same(t, l.Logger(), slog.Default())

	slog.Info("via default")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "via default", entry["msg"])
	assert.Equal(t, "global", entry["service.name"])
}

//nolint:paralleltest // replaces the process-wide slog default
func TestWithoutGlobalLogger_LeavesDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := MustNew(WithOutput(&bytes.Buffer{}))
	assert.NotSame(t, l.Logger(), slog.Default())
}
