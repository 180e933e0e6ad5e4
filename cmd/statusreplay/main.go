// Command statusreplay runs status effect scenarios against a simulated clock
// and optionally stores the resolved kills in the kill log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/statusfx/internal/config"
	"github.com/udisondev/statusfx/internal/db"
	"github.com/udisondev/statusfx/internal/replay"
	"github.com/udisondev/statusfx/internal/status"
)

const ConfigPath = "config/statusfx.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("STATUSFX_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to config file")
	workers := flag.Int("workers", 0, "concurrent scenarios (0 = from config)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if flag.NArg() == 0 {
		return errors.New("usage: statusreplay [-config path] [-workers n] scenario.yaml...")
	}

	scenarios := make([]*replay.Scenario, 0, flag.NArg())
	for _, path := range flag.Args() {
		sc, err := replay.Load(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
	}

	var kills status.KillRecorder
	if cfg.KillLog.Driver != config.DriverNone {
		log, err := db.Open(ctx, cfg.KillLog.Driver, cfg.KillLog.ConnString())
		if err != nil {
			return fmt.Errorf("opening kill log: %w", err)
		}
		defer func() {
			if err := log.Close(); err != nil {
				slog.Error("closing kill log", "err", err)
			}
		}()
		kills = log
		slog.Info("kill log enabled", "driver", cfg.KillLog.Driver)
	}

	n := cfg.Replay.Workers
	if *workers > 0 {
		n = *workers
	}

	slog.Info("statusfx replay starting",
		"scenarios", len(scenarios),
		"workers", n,
		"log_level", cfg.LogLevel)

	runner := replay.NewRunner(serviceOptions(cfg), kills)
	results, err := runner.RunAll(ctx, scenarios, n)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, res := range results {
		fmt.Printf("ok  %-32s steps=%d elapsed=%s kills=%d presentations=%d\n",
			res.Name, res.Steps, res.Elapsed, len(res.Kills), len(res.Presentations))
	}
	return nil
}

// serviceOptions maps config to resolver options.
func serviceOptions(cfg config.Config) status.Options {
	opts := status.DefaultOptions()
	opts.StunPriority = cfg.Stun.Priority
	opts.StunSuffix = cfg.Stun.Suffix
	opts.BlockSpeed = cfg.Blocking.Speed
	opts.BlockPriority = cfg.Blocking.Priority
	opts.BlockMeterInitial = cfg.Blocking.MeterInitial
	return opts
}
