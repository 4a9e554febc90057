package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/melvinsclub/club-backend/api"
	"github.com/melvinsclub/club-backend/internal/challenge"
	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/platform/health"
	"github.com/melvinsclub/club-backend/internal/platform/shutdown"
	"github.com/melvinsclub/club-backend/internal/platform/startup"
	"github.com/melvinsclub/club-backend/pkg/lifecycle"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// Capture the initial run ID before anything touches the caches.
	health.InitializeRunID()

	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("application initialization failed: %v", err))
	}

	fmt.Println("Running post-startup health check...")
	health.PerformCheck()
	go health.StartRedisHealthCheck()

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	allowedOrigins := cfg.Server.Cors.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	gracefulManager := lifecycle.NewManager()
	forcefulManager := lifecycle.NewManager()

	schedulerHandle, err := gracefulManager.NewServiceHandle("challenge-scheduler")
	if err != nil {
		panic(fmt.Sprintf("failed to register scheduler: %v", err))
	}
	go challenge.StartScheduler(schedulerHandle)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("Server ready, listening on %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.ListenForSignalsAndShutdown(server)
}
