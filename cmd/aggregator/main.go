package main

import (
	"context"
	"os/signal"
	"syscall"

	"tickcollector/config"
	"tickcollector/internal/ftxus/collector"
	"tickcollector/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// optional .env before viper reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// run collector
	if err := collector.StartCollector(ctx, cfg, log); err != nil {
		log.Fatal("collector failed", zap.Error(err))
	}

	<-ctx.Done()
	log.Info("shutting down")
}
