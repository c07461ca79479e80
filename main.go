package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roadmapboard/app"
	"roadmapboard/internal/config"
	"roadmapboard/internal/container"
	"roadmapboard/internal/logging"
)

const shutdownTimeout = 10 * time.Second

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

	logger, err := logging.New(appConfig.Log.Level, appConfig.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize container", logging.ErrorFields(err)...)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := appContainer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Container shutdown failed", zap.Error(err))
		}
	}()

	handler, err := appContainer.Handler()
	if err != nil {
		logger.Fatal("Failed to build HTTP handler", logging.ErrorFields(err)...)
	}

	// A failed first load leaves the dashboard in its error state; the server still starts.
	go func() {
		if _, err := appContainer.Dashboard.Reload(ctx, app.TriggerStartup); err != nil {
			logger.Warn("Initial workbook load failed", logging.ErrorFields(err)...)
		}
	}()

	if err := appContainer.StartTriggers(ctx); err != nil {
		logger.Fatal("Failed to start reload triggers", logging.ErrorFields(err)...)
	}

	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when ctx is cancelled so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("Starting roadmap dashboard",
			zap.String("addr", server.Addr),
			zap.String("workbook", appConfig.Workbook.Source))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown failed", zap.Error(err))
	}
}
