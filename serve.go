package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"wardrobeAPI/handlers"
	"wardrobeAPI/internal/cache"
	"wardrobeAPI/internal/matching"
	"wardrobeAPI/internal/notification"
	"wardrobeAPI/middleware"
	"wardrobeAPI/services"
)

const canvasJanitorInterval = 5 * time.Minute

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func runServe(ctx context.Context) error {
	clerk.SetKey(cfg.ClerkSecretKey)

	dbPool, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing database connection pool")
		dbPool.Close()
	}()
	logger.Info("connected to database")

	// The services take an interface, so a missing cache must stay an untyped nil.
	var itemCache services.ItemCache
	if cfg.RedisURL != "" {
		wc, err := cache.NewWardrobeCache(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("redis unavailable, wardrobe cache disabled", zap.Error(err))
		} else {
			defer wc.Close()
			itemCache = wc
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	middleware.InitPrometheus(reg)
	services.RegisterMetrics(reg)

	userService := services.NewUserService(dbPool, logger)
	wardrobeService := services.NewWardrobeService(dbPool, itemCache, logger)
	outfitService := services.NewOutfitService(dbPool, cfg.ShareBaseURL, logger)
	calendarService := services.NewCalendarService(dbPool, logger)
	deviceService := services.NewDeviceService(dbPool, logger)
	matchingService := services.NewMatchingService(wardrobeService, matching.NewEngine(nil), logger)

	canvasManager := services.NewCanvasSessionManager(outfitService, float64(cfg.CanvasWidth), float64(cfg.CanvasHeight), logger)
	canvasManager.StartJanitor(canvasJanitorInterval)
	defer canvasManager.Shutdown()

	fcmService, err := notification.NewFCMService(ctx, cfg.FCMServiceAccount, cfg.FCMCredentialsFile, logger)
	if err != nil {
		logger.Warn("could not initialize FCM, outfit reminders disabled", zap.Error(err))
	} else {
		dispatcher := services.NewReminderDispatcher(calendarService, fcmService, logger)
		dispatcher.Start()
		defer dispatcher.Stop()
		logger.Info("FCM push provider initialized")
	}

	limiter := middleware.NewRateLimiter(5, 30, cfg.TrustedProxies)
	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go limiter.CleanupVisitors(limiterCtx)

	router := handlers.NewRouter(handlers.Routes{
		DB:          dbPool,
		Verify:      middleware.ClerkVerifier,
		RateLimiter: limiter,
		Metrics:     reg,
		MetricsUser: cfg.MetricsUser,
		MetricsPass: cfg.MetricsPass,

		Users:       handlers.NewUserHandler(userService, logger),
		Webhooks:    handlers.NewWebhookHandler(userService, cfg.ClerkWebhookSecret, logger),
		Wardrobe:    handlers.NewWardrobeHandler(wardrobeService, logger),
		Outfits:     handlers.NewOutfitHandler(outfitService, logger),
		Calendar:    handlers.NewCalendarHandler(calendarService, logger),
		Suggestions: handlers.NewSuggestionHandler(matchingService, logger),
		Canvas:      handlers.NewCanvasHandler(canvasManager, middleware.ClerkVerifier, logger),
		Devices:     handlers.NewDeviceHandler(deviceService, logger),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server shutdown complete")
	return nil
}
