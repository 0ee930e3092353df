package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/pratofeito/pratofeito/internal/config"
	"github.com/pratofeito/pratofeito/internal/httpx"
	kafkax "github.com/pratofeito/pratofeito/internal/kafka"
	"github.com/pratofeito/pratofeito/internal/menu"
	"github.com/pratofeito/pratofeito/internal/notify"
	"github.com/pratofeito/pratofeito/internal/orders"
	"github.com/pratofeito/pratofeito/internal/postgres"
	"github.com/pratofeito/pratofeito/internal/redisx"
	"github.com/pratofeito/pratofeito/internal/schedule"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		slog.Error("bad DEFAULT_TZ", "tz", cfg.DefaultTimezone, "err", err)
		os.Exit(1)
	}

	hub := notify.NewHub()
	schedRepo := &schedule.Repo{DB: db}
	eval := &schedule.Evaluator{Store: schedRepo, DefaultLoc: defaultLoc}

	orderRepo := &orders.Repo{DB: db}
	orderSvc := &orders.Service{
		Store:   orderRepo,
		Open:    eval,
		Hub:     hub,
		Bus:     prod,
		Service: cfg.ServiceName,
	}

	menuRepo := &menu.Repo{DB: db}
	menuSvc := &menu.Service{
		Store:   menuRepo,
		Hub:     hub,
		Bus:     prod,
		Service: cfg.ServiceName,
	}

	router := httpx.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(httpx.RequestTimeout())
		(&httpx.OrdersHandler{Svc: orderSvc, Repo: orderRepo, Redis: rdb}).Register(r)
		(&httpx.MenuHandler{Svc: menuSvc, Repo: menuRepo, Redis: rdb}).Register(r)
		(&httpx.ScheduleHandler{Repo: schedRepo, Eval: eval}).Register(r)
	})
	// events stream stays outside the request timeout
	(&httpx.EventsHandler{Hub: hub}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
