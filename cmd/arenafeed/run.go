package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cuemby/arenafeed/pkg/feedback"
	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/manager"
	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/remote"
	"github.com/cuemby/arenafeed/pkg/restapi"
	"github.com/cuemby/arenafeed/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the composition and serve feedback",
	Long: `Connect to the remote websocket API, mirror the composition and keep
the requested feedback values up to date.

Examples:
  # Follow the selected column name and the state of clip 2,3
  arenafeed run --watch selectedColumnName --watch clipInfo=2,3

  # Use a config file and a custom metrics address
  arenafeed run -c arenafeed.yaml --metrics-addr :9191`,
	RunE: runServe,
}

func init() {
	runCmd.Flags().String("host", "", "Remote host")
	runCmd.Flags().Int("websocket-port", 0, "Remote websocket port")
	runCmd.Flags().Int("rest-port", 0, "Remote REST port")
	runCmd.Flags().String("data-dir", "", "Data directory for the thumbnail and variable store")
	runCmd.Flags().String("metrics-addr", "", "Address for /metrics, /health and /ready")
	runCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	addWatchFlags(runCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("watch", nil, "Watch a category, as category or category=params (repeatable)")
	cmd.Flags().String("view", "", "Timecode view for transport position watches")
	cmd.Flags().Int("step", 1, "Step for next/previous name watches")
	cmd.Flags().Bool("show-name", true, "Show the clip name in clipInfo watches")
	cmd.Flags().Bool("show-text", false, "Show the text source content in clipInfo watches; replaces the name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cfg)
	logger := log.WithComponent("cli")
	metrics.SetVersion(Version)

	watches, err := parseWatches(cmd)
	if err != nil {
		return err
	}
	opts := watchOptions(cmd)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		metrics.UpdateComponent(metrics.ComponentStore, false, err.Error())
		return err
	}
	defer store.Close()
	metrics.UpdateComponent(metrics.ComponentStore, true, cfg.DataDir)

	deps := manager.Deps{Store: store}
	if cfg.Thumbs.Enabled {
		deps.Fetcher = restapi.NewClient(cfg.RestURL(), cfg.Thumbs.RatePerSecond)
	}
	client := remote.NewClient(cfg.WebsocketURL())
	defer client.Close()
	deps.Channel = client

	mgr := manager.NewManager(manager.Config{
		FlushInterval:   cfg.Notify.FlushInterval,
		ResyncInterval:  cfg.ResyncInterval,
		LayerCategories: cfg.LayerCategories,
	}, deps)
	client.OnStateChange(mgr.ConnectionChanged)

	watcher := manager.NewWatcher(mgr, func(w manager.Watch, res feedback.Result) {
		ev := logger.Info().Str("category", w.Category).Str("params", w.Params).Str("text", res.Text)
		if res.Color != nil {
			ev = ev.Str("color", res.Color.String())
		}
		if res.BgColor != nil {
			ev = ev.Str("bgcolor", res.BgColor.String())
		}
		ev.Bool("active", res.Active).Msg("feedback")
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return mgr.Run(gctx)
	})
	g.Go(func() error {
		return client.Serve(gctx, mgr, cfg.ReconnectDelay)
	})
	g.Go(func() error {
		for _, w := range watches {
			if _, err := watcher.Add(w[0], w[1], opts); err != nil {
				return err
			}
		}
		return watcher.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr)
		})
	}

	logger.Info().
		Str("websocket", cfg.WebsocketURL()).
		Int("watches", len(watches)).
		Msg("arenafeed running, press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server error: %w", err)
	}
	return nil
}

// parseWatches splits each --watch value into category and params
func parseWatches(cmd *cobra.Command) ([][2]string, error) {
	values, _ := cmd.Flags().GetStringArray("watch")
	out := make([][2]string, 0, len(values))
	for _, v := range values {
		category, params, _ := strings.Cut(v, "=")
		if category == "" {
			return nil, fmt.Errorf("invalid --watch %q: category is required", v)
		}
		out = append(out, [2]string{category, params})
	}
	return out, nil
}

func watchOptions(cmd *cobra.Command) feedback.Options {
	view, _ := cmd.Flags().GetString("view")
	step, _ := cmd.Flags().GetInt("step")
	showName, _ := cmd.Flags().GetBool("show-name")
	showText, _ := cmd.Flags().GetBool("show-text")
	return feedback.Options{
		Step:     step,
		View:     view,
		ShowName: showName,
		ShowText: showText,
	}
}
