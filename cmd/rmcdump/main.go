package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/nexrmc/internal/config"
	"github.com/danmuck/nexrmc/internal/logging"
	"github.com/danmuck/nexrmc/internal/observability"
	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults apply when empty)")
	format := flag.String("format", "json", "output format: json|msgpack")
	workers := flag.Int("workers", 0, "decode workers (overrides config)")
	title := flag.String("title", "", "title method set (overrides config)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: rmcdump [-config f] [-format json|msgpack] [-workers n] capture...")
		os.Exit(2)
	}

	logger := observability.InitLogger("rmcdump")
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmcdump: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *title != "" {
		cfg.Title = *title
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("rmcdump ignoring unknown log level")
	}
	outFormat, err := tree.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmcdump: %v\n", err)
		os.Exit(2)
	}

	d, err := cfg.Selection().Dispatcher(
		dispatch.WithLogger(logger),
		dispatch.WithObserver(observability.DecodeMetrics{}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmcdump: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dd := dumper{dispatcher: d, ctx: cfg.Context(), workers: cfg.Workers, format: outFormat, out: os.Stdout, logger: logger}
	failed := 0
	for _, path := range flag.Args() {
		n, err := dd.dumpFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rmcdump: %v\n", err)
			os.Exit(1)
		}
		failed += n
	}
	if failed > 0 {
		logger.Warn().Int("failed", failed).Msg("rmcdump finished with undecodable messages")
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
