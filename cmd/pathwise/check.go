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

	"github.com/spf13/cobra"

	"pathwise.dev/config/codec"
	"pathwise.dev/config/dumper"
)

// dumpFormats maps --dump values to codecs.
var dumpFormats = map[string]codec.Type{
	"yaml": codec.TypeYAML,
	"json": codec.TypeJSON,
	"toml": codec.TypeTOML,
	"env":  codec.TypeEnvVar,
}

func checkCmd(g *globalFlags) *cobra.Command {
	var dump string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the route table",
		Long: `Load every source, validate the merged table and build a router from it.

Warnings such as conditional duplicates are logged. With --dump the merged
document is printed in the given format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var format codec.Type
			if dump != "" {
				var ok bool
				if format, ok = dumpFormats[dump]; !ok {
					return fmt.Errorf("unknown dump format %q", dump)
				}
			}

			a, err := g.load(cmd, "warn")
			if err != nil {
				return err
			}
			r, err := a.router()
			if err != nil {
				return err
			}

			if format != "" {
				encoder, err := codec.GetEncoder(format)
				if err != nil {
					return err
				}
				return a.cfg.Dump(cmd.Context(), dumper.NewWriter(cmd.OutOrStdout(), encoder))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d routes from %d table entries\n", len(r.Routes()), len(a.table.Routes))
			return nil
		},
	}

	cmd.Flags().StringVar(&dump, "dump", "", "print the merged table: yaml, json, toml or env")
	return cmd
}
