package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/haritham-market/internal/audit"
	"github.com/ariefcatur/haritham-market/internal/backend"
	"github.com/ariefcatur/haritham-market/internal/catalog"
	"github.com/ariefcatur/haritham-market/internal/config"
	"github.com/ariefcatur/haritham-market/internal/httpx"
	"github.com/ariefcatur/haritham-market/internal/imagehost"
	kafkax "github.com/ariefcatur/haritham-market/internal/kafka"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/postgres"
	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/ariefcatur/haritham-market/internal/stockmark"
	"github.com/ariefcatur/haritham-market/internal/workflow"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := cfg.Logger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, backend.WithLogger(logger))
	images := imagehost.New(cfg.ImageUploadURL, cfg.ImageCloudName, cfg.ImageUploadPreset, cfg.BackendTimeout)

	// Redis is optional; without it every cache and the status guard stay
	// in this process.
	var (
		store session.Store     = session.NewMemoryStore()
		names catalog.NameCache = catalog.NewMemoryNameCache(redisx.TTLSellerName)
		guard workflow.Guard    = workflow.NewMemoryGuard()
	)
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = &session.RedisStore{Redis: rdb, TTL: cfg.SessionTTL}
		names = &catalog.RedisNameCache{Redis: rdb, TTL: redisx.TTLSellerName}
		guard = &workflow.RedisGuard{Redis: rdb, TTL: redisx.TTLStatusInflight}
	}

	wf := &workflow.Workflow{
		API:     api,
		Policy:  cfg.StatusPolicy,
		Guard:   guard,
		Service: cfg.ServiceName,
		Log:     logger,
	}
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderStatusChanged, 1024, logger)
		prod.Start(ctx)
		wf.Events = prod
	}

	sell := &httpx.SellHandler{Orders: wf, Log: logger}
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.Options{AppName: cfg.ServiceName, MaxConns: 2})
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		sell.History = &audit.Repo{DB: db}
	}

	marks := stockmark.New(cfg.SoldOutWindow)
	go marks.Run(ctx, cfg.SoldOutSweep)

	sessions := &session.Manager{
		Auth:   api,
		Store:  store,
		TTL:    cfg.SessionTTL,
		Secure: cfg.SecureCookie,
		Log:    logger,
	}
	limiter := httpx.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	go limiter.Run(ctx, 5*time.Minute)

	sell.Desk = &catalog.Desk{API: api, Images: images, Log: logger}
	router := httpx.NewRouter(logger, sessions, limiter, cfg.TrustProxy)
	(&httpx.AuthHandler{Accounts: api, Sessions: sessions, Log: logger}).Register(router)
	(&httpx.BuyHandler{
		Listing: &catalog.Listing{
			API:   api,
			Names: &catalog.SellerNames{API: api, Cache: names},
			Marks: marks,
			Log:   logger,
		},
		Purchase: &catalog.Purchase{API: api, Marks: marks, Log: logger},
		Orders:   wf,
		Log:      logger,
	}).Register(router)
	sell.Register(router)
	(&httpx.ProfileHandler{API: api, Log: logger}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr, "backend", cfg.BackendBaseURL, "policy", cfg.StatusPolicy.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
	cancel()
}
