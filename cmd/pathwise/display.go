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

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"pathwise.dev/router"
)

// colorWriter downsamples styled output to what w supports. Writers that
// are not terminals get plain text.
func colorWriter(w io.Writer) *colorprofile.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}

// terminalWidth reports the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
}

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(12).PaddingLeft(2)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

// renderRoutes writes infos as a bordered table, shrunk to the terminal
// width when it would not fit.
func renderRoutes(w io.Writer, infos []router.RouteInfo) error {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		method := info.Method
		if style, ok := methodStyles[method]; ok {
			method = style.Render(method)
		}
		var flags []string
		if info.Regex {
			flags = append(flags, "regex")
		}
		if info.Condition {
			flags = append(flags, "conditional")
		}
		rows = append(rows, []string{method, info.Path, dash(info.Name), dash(info.Module), dash(strings.Join(flags, ","))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true)
			}
			return style
		}).
		Headers("METHOD", "PATH", "NAME", "MODULE", "FLAGS").
		Rows(rows...)

	out := t.Render()
	if width := terminalWidth(w); width > 0 && lipgloss.Width(out) > width {
		out = t.Width(width).Render()
	}
	cw := colorWriter(w)
	_, err := fmt.Fprintln(cw, out)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// bannerInfo is what the serve banner shows.
type bannerInfo struct {
	Version string
	Addr    string
	Metrics string
	Tracing string
	Routes  int
	Watch   string
}

// printBanner writes the startup banner: the program name as ASCII art and
// the serving endpoints.
func printBanner(w io.Writer, info bannerInfo) {
	gradient := []string{"12", "14", "10", "11"}

	var b strings.Builder
	for _, line := range figure.NewFigure("pathwise", "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for i, r := range line {
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(gradient[i%len(gradient)])).
				Bold(true).
				Render(string(r)))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	addr := info.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}
	line := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("disabled")
		} else {
			value = valueStyle.Render(value)
		}
		b.WriteString(labelStyle.Render(label) + "  " + value + "\n")
	}
	line("Version:", info.Version)
	line("Address:", "http://"+addr)
	line("Routes:", fmt.Sprint(info.Routes))
	line("Metrics:", info.Metrics)
	line("Tracing:", info.Tracing)
	line("Watch:", info.Watch)

	_, _ = fmt.Fprintln(colorWriter(w), b.String())
}
