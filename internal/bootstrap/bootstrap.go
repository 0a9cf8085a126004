// Package bootstrap builds the service graph shared by the API server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/declic-pro/internal/config"
	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/repositories"
	"alfredoptarigan/declic-pro/internal/services"
)

type Services struct {
	DB        *gorm.DB
	Runs      repositories.AnalysisRunRepository
	Generator services.Generator
	Analyzer  services.AnalyzerService
	Mailer    services.Mailer
	Exporter  services.PDFExporter
	Sealer    services.ResultSealer
}

// Build wires every service from cfg. A missing Gemini key or mail setup is not
// fatal: the affected operations report a ConfigurationError when called.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Services, error) {
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		log.Info("✅ Audit database connected", nil)
	}
	runRepo := repositories.NewAnalysisRunRepository(db)

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		var cfgErr *services.ConfigurationError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		log.Warn("⚠️ Gemini is not configured, analyses will be refused", map[string]interface{}{
			"setting": cfgErr.Setting,
		})
		gemini = nil
	}

	validator, err := services.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	generator := services.NewGenerator(gemini, validator, services.GeneratorConfig{
		MaxAttempts:       cfg.Generation.MaxAttempts,
		RetryInitialDelay: cfg.Generation.RetryInitialDelay,
		RetryMaxDelay:     cfg.Generation.RetryMaxDelay,
		Timeout:           cfg.Generation.Timeout,
	}, log)

	sealer, err := services.NewResultSealer(cfg.Sealing.Key, cfg.Sealing.TTL)
	if err != nil {
		return nil, err
	}
	if cfg.Sealing.Key == "" {
		log.Warn("⚠️ RESULT_SEALING_KEY not set, sealed results will not survive a restart", nil)
	}

	transport, err := newMailTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		log.Warn("⚠️ Email is not configured, sending results by email is disabled", map[string]interface{}{
			"provider": cfg.Mail.Provider,
		})
	}

	analyzer := services.NewAnalyzerService(
		services.NewTextExtractor(),
		services.NewPromptBuilder(cfg.Prompt.MaxDocumentChars),
		generator,
		services.NewPostProcessor(cfg.CTA.Label, cfg.CTA.URL),
		sealer,
		runRepo,
		log,
	)

	return &Services{
		DB:        db,
		Runs:      runRepo,
		Generator: generator,
		Analyzer:  analyzer,
		Mailer:    services.NewMailer(transport, cfg.Mail.From, log),
		Exporter:  services.NewPDFExporter(),
		Sealer:    sealer,
	}, nil
}

func newMailTransport(ctx context.Context, cfg *config.Config) (services.MailTransport, error) {
	if !cfg.MailConfigured() {
		return nil, nil
	}

	switch cfg.Mail.Provider {
	case "ses":
		return services.NewSESTransport(ctx, cfg.Mail.SESRegion)
	case "smtp", "":
		return services.NewSMTPTransport(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.Mail.Provider)
	}
}

// Close releases the database connection, if any.
func (s *Services) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
