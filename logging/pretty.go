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
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// prettyHandler renders records through a charmbracelet/log logger. The
// logger itself accepts everything; level gating and attribute replacement
// happen here so [Logger.SetLevel] and redaction behave as for the other
// handler types.
type prettyHandler struct {
	level   slog.Leveler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
	next    slog.Handler
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &prettyHandler{
		level:   level,
		replace: opts.ReplaceAttr,
		next: log.NewWithOptions(w, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			ReportCaller:    opts.AddSource,
		}),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if a, ok := h.replaceAttr(a); ok {
			out.AddAttrs(a)
		}
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	kept := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a, ok := h.replaceAttr(a); ok {
			kept = append(kept, a)
		}
	}
	clone := *h
	clone.next = h.next.WithAttrs(kept)
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	clone.next = h.next.WithGroup(name)
	return &clone
}

// replaceAttr applies the configured replacer. Attributes replaced by an
// empty key are dropped.
func (h *prettyHandler) replaceAttr(a slog.Attr) (slog.Attr, bool) {
	if h.replace == nil || a.Value.Kind() == slog.KindGroup {
		return a, true
	}
	a = h.replace(h.groups, a)
	return a, a.Key != ""
}
