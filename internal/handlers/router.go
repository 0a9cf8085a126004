package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/repositories"
	"alfredoptarigan/declic-pro/internal/services"
)

const (
	appName    = "DAP Déclic Pro API"
	appVersion = "1.0.0"

	// Multipart overhead on top of the file itself.
	bodyLimitSlack = 1 << 20
)

type Dependencies struct {
	Analyzer  services.AnalyzerService
	Generator services.Generator
	Mailer    services.Mailer
	Exporter  services.PDFExporter
	Sealer    services.ResultSealer
	Runs      repositories.AnalysisRunRepository
	Log       logger.Logger

	MaxFileSize     int64
	RateLimitMax    int
	RateLimitWindow time.Duration
	AccessLog       bool
}

// NewApp wires middleware and routes. It does not start listening.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(deps.MaxFileSize) + bodyLimitSlack,
		ErrorHandler: ErrorHandler(deps.Log, deps.MaxFileSize),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	analyzeHandler := NewAnalyzeHandler(deps.Analyzer, deps.MaxFileSize, deps.Log)
	emailHandler := NewEmailHandler(deps.Mailer, deps.Sealer, deps.Log)
	exportHandler := NewExportHandler(deps.Exporter, deps.Sealer, deps.Log)

	runs := deps.Runs
	if runs == nil {
		runs = repositories.NewAnalysisRunRepository(nil)
	}
	runsHandler := NewRunsHandler(runs, deps.Log)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "healthy",
			"time":             time.Now(),
			"model":            deps.Generator.ModelName(),
			"model_configured": deps.Generator.Configured(),
			"email_configured": deps.Mailer.Configured(),
		})
	})

	api.Post("/analyze", analyzeLimiter(deps), analyzeHandler.HandleAnalyze)
	api.Post("/email", emailHandler.HandleSendEmail)
	api.Post("/export/pdf", exportHandler.HandleExportPDF)

	api.Get("/runs", runsHandler.HandleListRuns)
	api.Get("/runs/stats", runsHandler.HandleStats)
	api.Get("/runs/:id", runsHandler.HandleGetRun)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": appName,
			"version": appVersion,
			"endpoints": []string{
				"POST /api/v1/analyze",
				"POST /api/v1/email",
				"POST /api/v1/export/pdf",
				"GET /api/v1/health",
				"GET /api/v1/runs",
				"GET /api/v1/runs/stats",
				"GET /api/v1/runs/:id",
				"GET /metrics",
			},
		})
	})

	return app
}

// analyzeLimiter throttles model calls per client IP. A zero max disables it.
func analyzeLimiter(deps Dependencies) fiber.Handler {
	if deps.RateLimitMax <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        deps.RateLimitMax,
		Expiration: deps.RateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Trop de demandes, réessayez dans quelques instants",
			})
		},
	})
}
