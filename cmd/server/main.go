package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gstrate/internal/auth"
	"gstrate/internal/cache"
	"gstrate/internal/config"
	"gstrate/internal/handler"
	"gstrate/internal/hsn"
	"gstrate/internal/metrics"
	"gstrate/internal/port"
	"gstrate/internal/provider"
	"gstrate/internal/repository/postgres"
	"gstrate/internal/router"
	"gstrate/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handler.Pinger)

	// Rate table: database master when enabled, compiled-in otherwise
	table := hsn.Default()
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			log.Printf("WARN: database unavailable, using built-in HSN table: %v", err)
		} else {
			defer db.Close()
			checks["database"] = db
			table = loadTable(ctx, db)
		}
	}
	log.Printf("HSN table ready with %d codes", table.Len())
	for _, m := range table.ValidateCategories() {
		log.Printf("WARN: category %q maps to HSN %s which is not in the rate table", m.Category, m.HSNCode)
	}

	// Rate cache
	var rateCache port.RateCache
	switch cfg.Cache.Backend {
	case "redis":
		client := cache.NewRedisClient(&cfg.Cache)
		defer func() { _ = client.Close() }()
		redisCache := cache.NewRedisCache(client, cfg.Cache.TTL, nil)
		checks["redis"] = redisCache
		rateCache = redisCache
	default:
		rateCache = cache.NewMemoryCache(cfg.Cache.TTL, nil)
	}
	log.Printf("Rate cache: %s (ttl %s)", cfg.Cache.Backend, cfg.Cache.TTL)

	// External rate providers
	providers, err := provider.Build(cfg.Tax.Providers())
	if err != nil {
		return fmt.Errorf("failed to configure rate providers: %w", err)
	}
	for _, p := range providers {
		log.Printf("Rate provider enabled: %s", p.Name())
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize services
	resolver := service.NewRateResolver(service.RateResolverDeps{
		Table:     table,
		Cache:     rateCache,
		Providers: providers,
		Metrics:   m,
	})
	aggregator := service.NewTaxAggregator(resolver, cfg.Tax.Concurrency)
	tokens := auth.NewTokenService(cfg.JWT)

	// Initialize handlers
	gstH := handler.NewGSTHandler(resolver, aggregator)
	healthH := handler.NewHealthHandler(checks)

	// Setup router
	r := router.Setup(tokens, gstH, healthH, reg, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func loadTable(ctx context.Context, db *sqlx.DB) *hsn.Table {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	table, err := hsn.Load(loadCtx, postgres.NewHSNRepo(db), postgres.NewCategoryRepo(db))
	if err != nil {
		log.Printf("WARN: loading HSN master failed, using built-in HSN table: %v", err)
		return hsn.Default()
	}
	return table
}
