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

// Command pathwise inspects and serves declarative route tables.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command that loads a route table.
type globalFlags struct {
	configs   []string
	envPrefix string
	consulKey string
	logLevel  string
	logFormat string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "pathwise",
		Short: "Inspect, test and serve route tables",
		Long: `pathwise loads declarative route tables and answers questions about them.

Tables are read from YAML, TOML, JSON or .env files, from environment
variables and optionally from Consul KV. Later sources override settings
of earlier ones and add their routes after them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&g.configs, "config", "c", nil, "route table file, repeatable")
	pf.StringVar(&g.envPrefix, "env-prefix", "PATHWISE_", "prefix of environment overrides, empty to disable")
	pf.StringVar(&g.consulKey, "consul-key", "", "Consul KV key holding a route table (requires CONSUL_HTTP_ADDR)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: console, pretty, text, json")

	root.AddCommand(
		routesCmd(g),
		matchCmd(g),
		checkCmd(g),
		renderCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return root
}
