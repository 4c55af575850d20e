package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"shelterly/server/config"
	"shelterly/server/internal/api"
	"shelterly/server/internal/database"
	"shelterly/server/internal/fcm"
	"shelterly/server/internal/filter"
	"shelterly/server/internal/gate"
	"shelterly/server/internal/kvstore"
	"shelterly/server/internal/models"
	"shelterly/server/internal/relay"
	"shelterly/server/internal/scheduler"
	"shelterly/server/internal/session"
	"shelterly/server/internal/store"
	"shelterly/server/internal/telegram"
	"shelterly/server/internal/wishlist"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize the listing database
	logger.Infof("Using database at: %s", cfg.Server.DBPath)
	db, err := database.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Initialize the user database (wishlist, notifications, tokens)
	userDB, err := database.OpenUserDB(cfg.Server.UserDBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize user database")
	}

	// Local key-value store backing the listing cache and view gate
	cacheDir := cfg.Server.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "shelterly", "cache")
	}
	kv := kvstore.NewFileStore(cacheDir, logger)

	// Core components
	engine := filter.NewEngine(
		cfg.Listings.GeoRadiusKM,
		cfg.Listings.BudgetPriceThreshold,
		cfg.Listings.PremiumRatingThreshold,
	)

	fallback := models.Coordinates{
		Latitude:  config.FallbackCenter[0],
		Longitude: config.FallbackCenter[1],
	}
	listings := store.NewListingStore(
		db,
		kv,
		time.Duration(cfg.Listings.CacheTTLMinutes)*time.Minute,
		fallback,
		logger,
	)

	tracker := session.NewTracker(logger)
	viewGate := gate.NewViewGate(kv, cfg.Gate.FreeViewLimit, tracker.Authenticated, logger)
	wishlistStore := wishlist.NewStore(wishlist.NewGormBackend(userDB), tracker.Current, logger)

	// The anonymous-to-authenticated transition resets the gate and loads
	// the user's saved listings
	tracker.OnLogin(func(userID string) {
		viewGate.Reset()
		if err := wishlistStore.Refresh(); err != nil {
			logger.WithError(err).Error("Failed to load wishlist on login")
		}
	})
	tracker.OnLogout(func() {
		wishlistStore.Clear()
	})

	// Notification relay
	telegramService := telegram.NewService(logger, telegram.Config{
		BotToken:  cfg.Telegram.BotToken,
		ChatID:    cfg.Telegram.ChatID,
		IsEnabled: cfg.Telegram.IsEnabled,
	})
	fcmClient := fcm.NewClient(logger, cfg.FCM.ServerKey, cfg.FCM.IsEnabled)
	notificationStore := relay.NewGormStore(userDB)
	notificationRelay := relay.NewRelay(notificationStore, fcmClient, telegramService, relay.Options{
		MaxRetries:    cfg.Relay.MaxRetries,
		RetryDelay:    time.Duration(cfg.Relay.RetryDelay) * time.Second,
		RetentionDays: cfg.Relay.RetentionDays,
	}, logger)

	queue := relay.NewNotificationQueue(cfg.Relay.QueueSize, logger)
	queue.Subscribe(notificationRelay.HandleBatch)
	queue.Start()
	defer queue.Close()

	// Periodic jobs: hourly sweep, nightly cleanup, cache warm-up
	jobs := scheduler.NewScheduler(notificationRelay, listings, logger)
	jobs.Start()
	defer jobs.Stop()

	// HTTP server
	router := gin.Default()
	router.Use(cors.Default())

	handler := api.NewHandler(db, listings, engine, viewGate, wishlistStore, tracker, notificationStore, queue, logger)
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
