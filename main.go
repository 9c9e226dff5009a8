// File: rentalwheels/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalwheels/config"
	"rentalwheels/cron"
	"rentalwheels/database"
	"rentalwheels/database/repository"
	"rentalwheels/handlers"
	"rentalwheels/middleware"
	"rentalwheels/routes"
	"rentalwheels/services/viewstate"
	"rentalwheels/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitPrefsCache()
	utils.StartHealthMonitor(utils.GetPrefsClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	routes.SetupCORS(router)

	// repositories.
	carRepo := repository.NewMongoCarRepo()
	bookingRepo := repository.NewMongoBookingRepo()

	// engines and per-user sessions.
	homeEngine := viewstate.NewHomeEngine(carRepo)
	homeEngine.Load(context.Background())

	sessions := handlers.NewSessionManager(
		carRepo,
		bookingRepo,
		utils.GetPrefsClient(),
		config.AppConfig.MaxComparisons,
	)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	cron.StartRefreshSweeper(sweeperCtx, homeEngine)

	// handlers.
	browseHandler := handlers.NewBrowseHandler(sessions)
	bookingsHandler := handlers.NewBookingsHandler(sessions)
	homeHandler := handlers.NewHomeHandler(homeEngine)
	preferencesHandler := handlers.NewPreferencesHandler(sessions)

	routes.RegisterHealthRoute(router)
	routes.RegisterHomeRoutes(router, homeHandler)
	routes.RegisterBrowseRoutes(router, browseHandler)
	routes.RegisterBookingsRoutes(router, bookingsHandler)
	routes.RegisterPreferencesRoutes(router, preferencesHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	homeEngine.Close()
	sessions.Shutdown(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
