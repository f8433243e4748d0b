package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundcoinsnap/internal/config"
	"fundcoinsnap/internal/pipeline"
)

func main() {
	var configPath string
	var outDir string
	var lang string

	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", config.DefaultPath), "path to assets config (.json, .yaml)")
	flag.StringVar(&outDir, "out-dir", "", "output directory (overrides config)")
	flag.StringVar(&lang, "lang", "", "header language: en or zh (overrides config)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("load config", zap.String("path", configPath), zap.Error(err))
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if lang != "" {
		cfg.HeadersLang = lang
	}
	logger.Info("starting run",
		zap.Int("funds", len(cfg.Funds)),
		zap.Int("coins", len(cfg.Coins)),
		zap.Strings("vs", cfg.VS),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.FromConfig(cfg, logger).Run(ctx); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}

	fmt.Printf("OK: %s & %s written/appended.\n", cfg.Output.LatestFile, cfg.Output.HistoryFile)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
