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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pathwise.dev/config"
	"pathwise.dev/logging"
	"pathwise.dev/metrics"
	"pathwise.dev/middleware"
	"pathwise.dev/middleware/accesslog"
	"pathwise.dev/middleware/recovery"
	"pathwise.dev/middleware/requestid"
	"pathwise.dev/problem"
	"pathwise.dev/router"
	"pathwise.dev/tracing"
)

// resolveHandler answers every request with its resolution as JSON. Not
// found and method not allowed outcomes are RFC 9457 problems with status
// 404 and 405, the latter with an Allow header.
func resolveHandler(r *router.Router, tracer *tracing.Tracer) http.Handler {
	formatter := problem.Formatter{
		ErrorID: func(req *http.Request) string { return requestid.Get(req.Context()) },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if tracer != nil {
			req = req.WithContext(tracer.Extract(req.Context(), req.Header))
		}
		res := r.ResolveRequest(req)
		accesslog.Annotate(req, res.Pattern(), res.Outcome.String())

		if p, ok := formatter.FromResult(req, res); ok {
			problem.Write(w, p)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newMatchReport(strings.ToUpper(req.Method), res))
	})
}

// serverHandler mounts the metrics endpoint and the resolver behind the
// request middleware.
func serverHandler(r *router.Router, tracer *tracing.Tracer, recorder *metrics.Recorder, metricsPath string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, recorder.Handler())
	mux.Handle("/", resolveHandler(r, tracer))

	return middleware.Chain(mux,
		requestid.New(),
		accesslog.New(
			accesslog.WithLogger(logger),
			accesslog.WithExcludePaths(metricsPath),
			accesslog.WithSlowThreshold(250*time.Millisecond),
		),
		recovery.New(recovery.WithLogger(logger)),
	)
}

// reloadFunc returns the watch callback publishing a changed table.
func reloadFunc(r *router.Router, logger *logging.Logger) func(*config.Table) {
	return func(t *config.Table) {
		descs, err := t.Descriptions()
		if err != nil {
			logger.Error("route table rejected", "error", err)
			return
		}
		if err = r.Reload(descs); err != nil {
			logger.Error("route table rejected", "error", err)
		}
	}
}

// reloadOnSignal reloads the sources and publishes the table each time sig
// fires, until ctx is done.
func reloadOnSignal(ctx context.Context, sig <-chan os.Signal, cfg *config.Config, reload func(*config.Table), logger *logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			logger.Info("reload requested")
			if err := cfg.Load(ctx); err != nil {
				logger.Warn("route table reload failed", "error", err)
				continue
			}
			reload(cfg.Table())
		}
	}
}

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr        string
		metricsPath string
		otlp        string
		watch       time.Duration
		noBanner    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolutions over HTTP",
		Long: `Answer every HTTP request with its resolution against the route table.

Prometheus metrics are served on --metrics-path. With --watch the sources are
polled and a changed table is published without dropping requests. SIGHUP
reloads the sources once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := g.load(cmd, "info")
			if err != nil {
				return err
			}
			l := a.logger.Logger()

			recorder, err := metrics.New(metrics.WithLogger(l), metrics.WithServiceVersion(version))
			if err != nil {
				return err
			}
			defer recorder.Shutdown(context.WithoutCancel(ctx))

			tracerOpts := []tracing.Option{tracing.WithLogger(l), tracing.WithServiceVersion(version)}
			if otlp != "" {
				tracerOpts = append(tracerOpts, tracing.WithOTLPHTTP(otlp))
			}
			tracer, err := tracing.New(tracerOpts...)
			if err != nil {
				return err
			}
			defer tracer.Shutdown(context.WithoutCancel(ctx))

			diagnostics := logging.Diagnostics(l)
			r, err := a.router(
				router.WithObserver(recorder),
				router.WithObserver(tracer),
				router.WithDiagnostics(router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
					diagnostics.OnDiagnostic(e)
					recorder.OnDiagnostic(e)
				})),
			)
			if err != nil {
				return err
			}

			watcher, err := config.New(append(a.options, config.WithLogger(l))...)
			if err != nil {
				return err
			}
			if err = watcher.Load(ctx); err != nil {
				return err
			}
			reload := reloadFunc(r, a.logger)
			if watch > 0 {
				go func() {
					if err := watcher.Watch(ctx, watch, reload); err != nil {
						a.logger.Error("watch stopped", "error", err)
					}
				}()
			}
			hup, stopHup := reloadSignal()
			defer stopHup()
			go reloadOnSignal(ctx, hup, watcher, reload, a.logger)

			srv := &http.Server{
				Addr:              addr,
				Handler:           serverHandler(r, tracer, recorder, metricsPath, l),
				ReadHeaderTimeout: 5 * time.Second,
			}

			if !noBanner {
				info := bannerInfo{
					Version: version,
					Addr:    addr,
					Metrics: fmt.Sprintf("%s [%s]", metricsPath, recorder.Provider()),
					Routes:  len(r.Routes()),
				}
				if otlp != "" {
					info.Tracing = fmt.Sprintf("%s [%s]", otlp, tracer.Provider())
				}
				if watch > 0 {
					info.Watch = "every " + watch.String()
				}
				printBanner(cmd.ErrOrStderr(), info)
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("serving resolutions", "addr", addr, "metrics", metricsPath, "routes", len(r.Routes()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			a.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&metricsPath, "metrics-path", "/metrics", "path of the Prometheus endpoint")
	f.StringVar(&otlp, "otlp", "", "OTLP HTTP endpoint for resolution spans")
	f.DurationVar(&watch, "watch", 0, "poll interval for route table changes, 0 disables")
	f.BoolVar(&noBanner, "no-banner", false, "do not print the startup banner")
	return cmd
}
