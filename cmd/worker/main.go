package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pratofeito/pratofeito/internal/config"
	kafkax "github.com/pratofeito/pratofeito/internal/kafka"
	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/redisx"
	"github.com/pratofeito/pratofeito/internal/worker"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &worker.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-worker",
	}

	group := getenv("STATUS_GROUP", "status-cache")
	workers := mustAtoi(os.Getenv("STATUS_WORKERS"), 4)
	topics := []string{orders.TopicOrderCreated, orders.TopicStatusChanged}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topics, workers)

	go func() {
		slog.Info("status worker started", "group", group, "topics", topics, "workers", workers)
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			slog.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down worker")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
