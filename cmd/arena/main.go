package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/Garsondee/Algo-Arena/internal/arena"
	"github.com/Garsondee/Algo-Arena/internal/config"
	"github.com/Garsondee/Algo-Arena/internal/logging"
	"github.com/Garsondee/Algo-Arena/internal/telemetry"
	"github.com/Garsondee/Algo-Arena/internal/viewer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("arena", pflag.ContinueOnError)
	cfgPath := fs.StringP("config", "c", "", "config file (json or yaml)")
	fs.Int64("seed", 1, "arena RNG seed")
	fs.Float64("width", 800, "arena width")
	fs.Float64("height", 600, "arena height")
	fs.Int("fps", 60, "frame rate cap")
	fs.Duration("budget", 0, "per-tick controller budget (0 keeps the configured value)")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("log-format", "console", "log format (console or json)")
	fs.Bool("metrics", false, "print otel metrics to stderr")
	fs.Duration("metrics-int", 0, "metrics export interval")
	verbose := fs.Bool("verbose", false, "record verbose engine events")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := config.BindFlags(fs); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	zl := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	logger := logging.NewAdapter(zl)

	opts := []arena.MatchOption{arena.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		shutdown, err := telemetry.Setup(os.Stderr, cfg.Metrics.Interval)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("metrics shutdown", "error", err)
			}
		}()
		opts = append(opts, arena.WithMetrics())
	}

	events := arena.NewEventLog(*verbose)
	events.SetLimit(2000)
	opts = append(opts, arena.WithEventLog(events))

	settings := cfg.Settings()
	m, err := arena.NewMatch(settings, opts...)
	if err != nil {
		return err
	}

	g, err := viewer.New(m, events, logger, func() ([]arena.Entry, error) {
		return cfg.Entries(logger)
	})
	if err != nil {
		return err
	}

	w, h := g.Size()
	ebiten.SetWindowTitle("Algo Arena")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(settings.FPSCap)
	zl.Info().Int64("seed", settings.Seed).Int("bots", len(cfg.Bots)).Msg("arena started")
	return ebiten.RunGame(g)
}
