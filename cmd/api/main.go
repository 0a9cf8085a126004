package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/declic-pro/internal/bootstrap"
	"alfredoptarigan/declic-pro/internal/config"
	"alfredoptarigan/declic-pro/internal/handlers"
	"alfredoptarigan/declic-pro/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	log.Info("✅ Config loaded successfully", map[string]interface{}{"env": cfg.Server.Env})

	// Initialize services
	ctx := context.Background()
	svc, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error("❌ Failed to initialize services", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer svc.Close()
	log.Info("✅ Services initialized successfully", map[string]interface{}{
		"model":            svc.Generator.ModelName(),
		"model_configured": svc.Generator.Configured(),
		"email_configured": svc.Mailer.Configured(),
	})

	app := handlers.NewApp(handlers.Dependencies{
		Analyzer:        svc.Analyzer,
		Generator:       svc.Generator,
		Mailer:          svc.Mailer,
		Exporter:        svc.Exporter,
		Sealer:          svc.Sealer,
		Runs:            svc.Runs,
		Log:             log,
		MaxFileSize:     cfg.Server.MaxFileSize,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: cfg.RateLimit.Window,
		AccessLog:       cfg.Server.Env == "development",
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...", nil)
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", map[string]interface{}{"addr": addr})

	if err := app.Listen(addr); err != nil {
		log.Error("❌ Failed to start server", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
