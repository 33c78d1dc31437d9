package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/haritham-market/internal/audit"
	"github.com/ariefcatur/haritham-market/internal/config"
	kafkax "github.com/ariefcatur/haritham-market/internal/kafka"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/postgres"
	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.PostgresDSN == "" || len(cfg.KafkaBrokers) == 0 {
		log.Fatalf("auditor needs POSTGRES_DSN and KAFKA_BROKERS")
	}
	cfg.ServiceName += "-auditor"
	logger := cfg.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.Options{
		AppName:  cfg.ServiceName,
		MaxConns: int32(cfg.AuditorWorkers) + 1,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	repo := &audit.Repo{DB: db}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	svc := &audit.Service{Repo: repo, ServiceName: cfg.ServiceName, Log: logger}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		svc.Redis = rdb
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditorGroup, market.TopicOrderStatusChanged, cfg.AuditorWorkers, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("auditor consumer started",
			"group", cfg.AuditorGroup, "topic", market.TopicOrderStatusChanged, "workers", cfg.AuditorWorkers)
		if err := cons.Start(ctx, svc.HandleStatusChanged); err != nil {
			logger.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumer")
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
