package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kanakjewels/kanak-backend/api/routes"
	authsvc "github.com/kanakjewels/kanak-backend/internal/auth"
	"github.com/kanakjewels/kanak-backend/internal/cart"
	"github.com/kanakjewels/kanak-backend/internal/catalog"
	"github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/internal/goldprice"
	"github.com/kanakjewels/kanak-backend/internal/pricing"
	"github.com/kanakjewels/kanak-backend/internal/pricingcfg"
	"github.com/kanakjewels/kanak-backend/internal/wishlist"
	"github.com/kanakjewels/kanak-backend/pkg/auth/session"
	"github.com/kanakjewels/kanak-backend/pkg/config"
	"github.com/kanakjewels/kanak-backend/pkg/db"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/metrics"
	"github.com/kanakjewels/kanak-backend/pkg/migrate"
	"github.com/kanakjewels/kanak-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	feed, err := goldprice.NewFeedClient(cfg.GoldFeed.URL, cfg.GoldFeed.FetchTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create gold feed client", err)
		os.Exit(1)
	}

	goldService, err := goldprice.NewService(goldprice.Deps{
		Feed:            feed,
		CacheTTL:        cfg.GoldFeed.CacheTTL,
		FallbackPerGram: cfg.GoldFeed.FallbackPerGram,
		Logger:          logg,
		Metrics:         pricingMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gold price service", err)
		os.Exit(1)
	}

	configService, err := pricingcfg.NewService(pricingcfg.Deps{
		Repo:     pricingcfg.NewRepository(dbClient.DB()),
		CacheTTL: cfg.Pricing.ConfigCacheTTL,
		Logger:   logg,
		Metrics:  pricingMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing config service", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(pricing.EngineDeps{
		Gold:    goldService,
		Config:  configService,
		Logger:  logg,
		Metrics: pricingMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create price engine", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.Deps{
		Repo:   catalog.NewRepository(dbClient.DB()),
		Engine: engine,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(coupons.Deps{
		Repo:   coupons.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.Deps{
		Repo:    cart.NewRepository(dbClient.DB()),
		Catalog: catalogService,
		Coupons: couponService,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.Deps{
		Repo:   wishlist.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.Deps{
		Repo:     authsvc.NewRepository(dbClient.DB()),
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			registry,
			authService,
			catalogService,
			cartService,
			wishlistService,
			couponService,
			configService,
			goldService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
