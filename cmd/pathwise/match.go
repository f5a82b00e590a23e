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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"pathwise.dev/router"
	"pathwise.dev/tracing"
)

// errNoMatch is returned by "match --fail" when the request is not matched.
var errNoMatch = errors.New("request not matched")

// matchReport is the JSON form of a resolution.
type matchReport struct {
	Outcome string            `json:"outcome"`
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Route   string            `json:"route,omitempty"`
	Name    string            `json:"name,omitempty"`
	Module  string            `json:"module,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Types   map[string]string `json:"types,omitempty"`
	Allowed []string          `json:"allowed,omitempty"`
}

func newMatchReport(method string, res router.Result) matchReport {
	rep := matchReport{
		Outcome: res.Outcome.String(),
		Method:  method,
		Path:    res.Path,
		Allowed: res.Allowed,
	}
	if res.Matched() {
		rep.Route = res.Route.Path
		rep.Name = res.Route.Name
		rep.Module = res.Route.ModulePath
		rep.Params = res.Raw
		rep.Types = make(map[string]string, len(res.Params))
		for name, v := range res.Params {
			rep.Types[name] = fmt.Sprintf("%T", v)
		}
	}
	return rep
}

func (rep matchReport) write(w io.Writer) {
	switch rep.Outcome {
	case router.Matched.String():
		fmt.Fprintf(w, "matched %s %s\n", rep.Method, rep.Route)
		if rep.Name != "" {
			fmt.Fprintf(w, "  name:   %s\n", rep.Name)
		}
		if rep.Module != "" {
			fmt.Fprintf(w, "  module: %s\n", rep.Module)
		}
		names := make([]string, 0, len(rep.Params))
		for name := range rep.Params {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s = %s (%s)\n", name, rep.Params[name], rep.Types[name])
		}
	case router.MethodNotAllowed.String():
		fmt.Fprintf(w, "method not allowed: %s %s\n  allowed: %s\n", rep.Method, rep.Path, strings.Join(rep.Allowed, ", "))
	default:
		fmt.Fprintf(w, "not found: %s %s\n", rep.Method, rep.Path)
	}
}

// parseHeader accepts "Name: value" and "Name=value".
func parseHeader(s string) (string, string, error) {
	if name, value, ok := strings.Cut(s, ":"); ok {
		return strings.TrimSpace(name), strings.TrimSpace(value), nil
	}
	if name, value, ok := strings.Cut(s, "="); ok {
		return strings.TrimSpace(name), strings.TrimSpace(value), nil
	}
	return "", "", fmt.Errorf("invalid header %q, want Name: value", s)
}

func matchCmd(g *globalFlags) *cobra.Command {
	var (
		headers []string
		host    string
		asJSON  bool
		trace   bool
		fail    bool
	)

	cmd := &cobra.Command{
		Use:   "match METHOD PATH",
		Short: "Resolve a request against the route table",
		Long: `Resolve a request against the route table and print the outcome.

PATH may carry a query string, which query conditions see. Headers and the
host are available to header and host conditions.`,
		Example: `  pathwise match -c routes.yaml GET /users/42
  pathwise match -c routes.yaml GET '/reports/2024?beta' -H 'X-Tenant: acme'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, "warn")
			if err != nil {
				return err
			}

			var opts []router.Option
			if trace {
				tracer, err := tracing.New(
					tracing.WithStdout(cmd.ErrOrStderr()),
					tracing.WithServiceVersion(version),
				)
				if err != nil {
					return err
				}
				defer tracer.Shutdown(context.WithoutCancel(cmd.Context()))
				opts = append(opts, router.WithObserver(tracer))
			}

			r, err := a.router(opts...)
			if err != nil {
				return err
			}

			method := strings.ToUpper(args[0])
			req, err := http.NewRequestWithContext(cmd.Context(), method, args[1], nil)
			if err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}
			if host != "" {
				req.Host = host
			}
			for _, h := range headers {
				name, value, err := parseHeader(h)
				if err != nil {
					return err
				}
				req.Header.Add(name, value)
			}

			rep := newMatchReport(method, r.ResolveRequest(req))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else {
				rep.write(cmd.OutOrStdout())
			}

			if fail && rep.Outcome != router.Matched.String() {
				return fmt.Errorf("%w: %s", errNoMatch, rep.Outcome)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&headers, "header", "H", nil, "request header, repeatable")
	f.StringVar(&host, "host", "", "request host")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	f.BoolVar(&trace, "trace", false, "write the resolution span to stderr")
	f.BoolVar(&fail, "fail", false, "exit with an error when the request is not matched")
	return cmd
}
