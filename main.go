package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"chartfolio/internal/config"
	"chartfolio/internal/container"
	"chartfolio/internal/render"
	"chartfolio/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := appContainer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	if err := appContainer.Start(ctx); err != nil {
		log.Fatalf("Failed to start application container: %v", err)
	}

	// Initialize web server
	server, err := ui.NewServer(ui.Deps{
		Registry:  appContainer.Registry,
		Reflow:    appContainer.Reflow,
		Hub:       appContainer.SSEHub,
		Blog:      appContainer.Blog,
		Calendars: appContainer.Calendars,
		Gate:      appContainer.Gate,
		Portfolio: appContainer.Portfolio,
		Data:      appContainer.DataHost.Handler(),
		Gatherer:  appContainer.Prometheus,
		Theme:     render.ThemeByName(appConfig.Charts.Theme),
		Logger:    appContainer.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	go server.Pump(ctx)

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
