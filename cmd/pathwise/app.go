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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pathwise.dev/config"
	"pathwise.dev/logging"
	"pathwise.dev/router"
)

// app is a loaded route table with the logger configured for it.
type app struct {
	options []config.Option
	cfg     *config.Config
	table   *config.Table
	logger  *logging.Logger
}

// sourceOptions returns the config sources selected by the flags.
func (g *globalFlags) sourceOptions() []config.Option {
	opts := make([]config.Option, 0, len(g.configs)+2)
	for _, path := range g.configs {
		opts = append(opts, config.WithFile(path))
	}
	if g.consulKey != "" {
		opts = append(opts, config.WithConsul(g.consulKey))
	}
	if g.envPrefix != "" {
		opts = append(opts, config.WithEnv(g.envPrefix))
	}
	return opts
}

// load reads the route table and builds the logger. defaultLevel applies
// when neither the flags nor the table choose a level.
func (g *globalFlags) load(cmd *cobra.Command, defaultLevel string) (*app, error) {
	if len(g.configs) == 0 && g.consulKey == "" {
		return nil, errors.New("no route table: pass --config or --consul-key")
	}

	opts := g.sourceOptions()
	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}
	if err = cfg.Load(cmd.Context()); err != nil {
		return nil, err
	}
	table := cfg.Table()

	levelName := firstNonEmpty(g.logLevel, table.Log.Level, defaultLevel)
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	handler, err := logging.ParseHandlerType(firstNonEmpty(g.logFormat, table.Log.Format, string(logging.ConsoleHandler)))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(
		logging.WithHandlerType(handler),
		logging.WithLevel(level),
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithServiceName("pathwise"),
		logging.WithServiceVersion(version),
	)
	if err != nil {
		return nil, err
	}

	return &app{options: opts, cfg: cfg, table: table, logger: logger}, nil
}

// router builds a router for the loaded table with logging attached.
func (a *app) router(opts ...router.Option) (*router.Router, error) {
	l := a.logger.Logger()
	base := []router.Option{
		router.WithLogger(l),
		router.WithDiagnostics(logging.Diagnostics(l)),
		router.WithObserver(logging.Resolutions(l)),
	}
	r, err := a.table.NewRouter(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}
	return r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
