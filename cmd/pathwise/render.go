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
	"strings"

	"github.com/spf13/cobra"
)

func renderCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "render NAME [PARAM=VALUE...]",
		Short:   "Build a path for a named route",
		Example: `  pathwise render -c routes.yaml user id=42`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]any, len(args)-1)
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid parameter %q, want NAME=VALUE", arg)
				}
				params[name] = value
			}

			a, err := g.load(cmd, "warn")
			if err != nil {
				return err
			}
			r, err := a.router()
			if err != nil {
				return err
			}

			path, err := r.Render(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
