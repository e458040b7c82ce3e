package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restoadmin/config"
	"github.com/yeremiapane/restoadmin/database"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/metrics"
	"github.com/yeremiapane/restoadmin/router"
	"github.com/yeremiapane/restoadmin/services"
	"github.com/yeremiapane/restoadmin/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.InitLogger()
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		utils.SetLogLevel("debug")
	}
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}
	if cfg.FloorConfigPath != "" {
		plan, err := config.LoadFloorPlan(cfg.FloorConfigPath)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to load floor plan: %v", err)
		}
		if err := database.SyncFloorPlan(db, plan); err != nil {
			utils.ErrorLogger.Fatalf("Failed to sync floor plan: %v", err)
		}
	}

	metrics.Register()

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		utils.InfoLogger.Println("Redis not available, using in-process rate limiting")
	} else {
		defer rdb.Close()
	}

	floorHub := hub.NewFloorHub()
	notifier := services.MultiNotifier{
		services.HubNotifier{Hub: floorHub},
		services.LogNotifier{},
	}
	if publisher := services.NewAMQPPublisher(cfg.RabbitMQURL); publisher != nil {
		notifier = append(notifier, publisher)
	}

	settings := cfg.Schedule()
	loc := cfg.Location()
	availability := services.NewAvailabilityService(db, settings, loc, cfg.StorageTimeout)
	reservations := services.NewReservationService(db, settings, loc, cfg.StorageTimeout, notifier)

	monitor := services.NewStatusMonitor(availability, notifier)
	monitor.Start()
	defer monitor.Stop()

	// Setup router
	r := router.SetupRouter(router.Deps{
		Config:       cfg,
		DB:           db,
		Redis:        rdb,
		Hub:          floorHub,
		Notifier:     notifier,
		Availability: availability,
		Reservations: reservations,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
	}
}
