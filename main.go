package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feedgen/pkg/config"
	"feedgen/pkg/generator"
	"feedgen/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Level: "info"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, log)
	stop()

	if err != nil {
		log.Error("Error: " + err.Error())
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, log logger.Logger) error {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}

	gen := generator.New(generator.Options{
		OutputDir: generator.DefaultOutputDir,
		Logger:    log,
	})

	summary, err := gen.Run(ctx, cfg)
	if err != nil {
		return err
	}

	log.Debug("Run complete",
		logger.Int("written", summary.Written),
		logger.Int("skipped", summary.Skipped),
		logger.Int("warnings", summary.Warnings),
	)
	return nil
}
