package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trackifyr/activity"
	"trackifyr/auth"
	"trackifyr/config"
	"trackifyr/metrics"
	"trackifyr/storage"
	"trackifyr/web"
)

const version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "trackifyr",
		Short:         "Cognitive load monitoring dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMetricsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cfg.Log, os.Stderr))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	trackers := activity.NewRegistry(cfg.Activity.Keep, cfg.Storage.IdleTTL)
	go trackers.Run(ctx, cfg.Activity.Interval)

	e, err := web.New(cfg.Server, auth.NewAuthManager(store, cfg.Auth), trackers)
	if err != nil {
		return fmt.Errorf("cannot init web: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", cfg.Server.Addr), slog.String("storage", cfg.Storage.Driver), slog.String("version", version))
		errc <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func newMetricsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print the aggregates of the sample data set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := metrics.Summarize(time.Now())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			fmt.Fprintf(out, "Average load:       %d%%\n", s.AverageLoad)
			fmt.Fprintf(out, "Average engagement: %d%%\n", s.AverageEngagement)
			fmt.Fprintf(out, "Peak load:          %d%% (%s)\n", s.PeakLoad, metrics.LoadLevel(s.PeakLoad))
			fmt.Fprintf(out, "Total sessions:     %d (%d today)\n", s.TotalSessions, s.TodaySessions)
			fmt.Fprintf(out, "Weekly sessions:    %d\n", s.WeeklySessions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
