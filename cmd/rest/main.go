package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bayan-ai-be/internal/bootstrap"
	"bayan-ai-be/internal/config"
	"bayan-ai-be/internal/server"
	"bayan-ai-be/internal/tracer"
	"bayan-ai-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Tracing
	shutdownTracer := tracer.InitTracer(cfg.Telemetry, cfg.App.Name, container.Logger)
	defer shutdownTracer(context.Background())

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		container.Logger.Error("Main", "Failed to start turn history consumer", map[string]interface{}{"error": err.Error()})
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		container.Logger.Info("Main", "Shutting down", nil)
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("Main", "Shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("Main", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
