package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stellarmarket/stellarmarket-backend/api/routes"
	"github.com/stellarmarket/stellarmarket-backend/internal/cart"
	"github.com/stellarmarket/stellarmarket-backend/internal/dashboard"
	"github.com/stellarmarket/stellarmarket-backend/internal/orders"
	"github.com/stellarmarket/stellarmarket-backend/internal/products"
	"github.com/stellarmarket/stellarmarket-backend/internal/promotions"
	"github.com/stellarmarket/stellarmarket-backend/internal/ratings"
	"github.com/stellarmarket/stellarmarket-backend/internal/wishlist"
	"github.com/stellarmarket/stellarmarket-backend/pkg/config"
	"github.com/stellarmarket/stellarmarket-backend/pkg/db"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
	"github.com/stellarmarket/stellarmarket-backend/pkg/migrate"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pubsub"
	"github.com/stellarmarket/stellarmarket-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var pubsubClient *pubsub.Client
	if cfg.PubSub.Enabled() && cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	}

	gormDB := dbClient.DB()

	productsRepo := products.NewRepository(gormDB)
	ratingsRepo := ratings.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	promotionsRepo := promotions.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	productService, err := products.NewService(productsRepo)
	requireService(logg, "products", err)

	ratingService, err := ratings.NewService(ratingsRepo, productsRepo)
	requireService(logg, "ratings", err)

	cartService, err := cart.NewService(cartRepo, productsRepo, promotionsRepo)
	requireService(logg, "cart", err)

	wishlistService, err := wishlist.NewService(wishlistRepo, productsRepo)
	requireService(logg, "wishlist", err)

	var orderService orders.Service
	if pubsubClient != nil {
		orderService, err = orders.NewService(ordersRepo, pubsubClient, logg)
	} else {
		orderService, err = orders.NewService(ordersRepo, nil, logg)
	}
	requireService(logg, "orders", err)

	dashboardService, err := dashboard.NewService(dashboardRepo)
	requireService(logg, "dashboard", err)

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: prometheus.NewRegistry(),

		ProductService:   productService,
		RatingService:    ratingService,
		CartService:      cartService,
		WishlistService:  wishlistService,
		OrderService:     orderService,
		DashboardService: dashboardService,
	})

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
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
