package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/retrace/internal/config"
	"github.com/dshills/retrace/internal/logging"
	"github.com/dshills/retrace/internal/manager"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Edit a line buffer interactively",
	Long: `Reads lines from standard input. Each line replaces the buffer; lines starting
with ':' are commands (type :help for a list).`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("debounce", 0, "Quiet period before input is recorded (default from config)")
	runCmd.Flags().Int("undo-floor", 0, "Position undo must stay above (default from config)")
	runCmd.Flags().Int("max-depth", 0, "Maximum number of recorded steps, 0 for unlimited")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	runCmd.Flags().Bool("watch", false, "Reload debounce and max depth when the configuration file changes")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s, err := newSession(cmd.OutOrStdout(),
		manager.WithConfig(cfg),
		manager.WithLogger(logger),
		manager.WithMetrics(manager.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}
	defer s.close()

	if cfg.Metrics.Addr != "" {
		shutdown := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer shutdown()
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			w, err := config.Watch(path, func(next config.Config, err error) {
				if err != nil {
					logger.Warn("config reload failed", "error", err)
					return
				}
				s.applyConfig(next)
				logger.Info("config reloaded",
					"debounce", next.History.Debounce,
					"max_depth", next.History.MaxDepth,
				)
			}, config.WithWatchLogger(logger))
			if err != nil {
				return fmt.Errorf("watching config: %w", err)
			}
			defer w.Close()
		}
	}

	logger.Debug("session started", "debounce", s.mgr.Debounce())
	return s.run(ctx, cmd.InOrStdin())
}

// resolveConfig loads the configuration file and applies command-line
// overrides on top.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("debounce") {
		cfg.History.Debounce, _ = flags.GetDuration("debounce")
	}
	if flags.Changed("undo-floor") {
		cfg.History.UndoFloor, _ = flags.GetInt("undo-floor")
	}
	if flags.Changed("max-depth") {
		cfg.History.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// serveMetrics starts the /metrics endpoint and returns a function that
// stops it.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
