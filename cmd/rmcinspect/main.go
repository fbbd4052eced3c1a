package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/nexrmc/internal/config"
	"github.com/danmuck/nexrmc/internal/inspect"
	"github.com/danmuck/nexrmc/internal/logging"
	"github.com/danmuck/nexrmc/internal/observability"
	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults apply when empty)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	logger := observability.InitLogger("rmcinspect")
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rmcinspect: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Inspect.Addr = *addr
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("rmcinspect ignoring unknown log level")
	}

	d, err := cfg.Selection().Dispatcher(
		dispatch.WithLogger(logger),
		dispatch.WithObserver(observability.DecodeMetrics{}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmcinspect: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("nex_version", cfg.NEXVersion.String()).
		Int("prudp_version", cfg.PRUDPVersion).
		Str("header_rule", cfg.HeaderRule.String()).
		Str("title", cfg.Title).
		Msg("rmcinspect starting")
	if err := inspect.New(cfg, d, logger).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rmcinspect: %v\n", err)
		os.Exit(1)
	}
}
