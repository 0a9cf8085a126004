package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
)

type GeneratorConfig struct {
	MaxAttempts       int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	Timeout           time.Duration
}

type Generation struct {
	Result   *models.AnalysisResult
	Attempts int
	Model    string
}

type Generator interface {
	// Configured is false when no model client is available.
	Configured() bool
	ModelName() string
	Generate(ctx context.Context, prompt Prompt) (*Generation, error)
}

type schemaGenerator struct {
	client    GeminiService
	validator *SchemaValidator
	cfg       GeneratorConfig
	log       logger.Logger
}

// NewGenerator accepts a nil client: every call then fails with a ConfigurationError.
func NewGenerator(client GeminiService, validator *SchemaValidator, cfg GeneratorConfig, log logger.Logger) Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryInitialDelay <= 0 {
		cfg.RetryInitialDelay = time.Second
	}
	if cfg.RetryMaxDelay < cfg.RetryInitialDelay {
		cfg.RetryMaxDelay = cfg.RetryInitialDelay
	}

	return &schemaGenerator{
		client:    client,
		validator: validator,
		cfg:       cfg,
		log:       log.WithFields(map[string]interface{}{"component": "generator"}),
	}
}

func (g *schemaGenerator) Configured() bool {
	return g.client != nil
}

func (g *schemaGenerator) ModelName() string {
	if g.client == nil {
		return ""
	}
	return g.client.ModelName()
}

func (g *schemaGenerator) Generate(ctx context.Context, prompt Prompt) (*Generation, error) {
	if g.client == nil {
		return nil, &ConfigurationError{Setting: "GEMINI_API_KEY", Message: MsgMissingGeminiKey}
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	backoff := retry.NewExponential(g.cfg.RetryInitialDelay)
	backoff = retry.WithCappedDuration(g.cfg.RetryMaxDelay, backoff)
	backoff = retry.WithMaxRetries(uint64(g.cfg.MaxAttempts-1), backoff)

	schema := AnalysisSchema()
	gen := &Generation{Model: g.client.ModelName()}
	var lastErr error

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		gen.Attempts++
		attemptLog := g.log.WithFields(map[string]interface{}{"attempt": gen.Attempts})

		text, err := g.client.GenerateStructured(ctx, prompt.System, prompt.User, schema)
		if err != nil {
			GenerationAttemptsTotal.WithLabelValues(attemptProvider).Inc()
			lastErr = err

			var providerErr *ProviderError
			if errors.As(err, &providerErr) && providerErr.Retryable {
				attemptLog.Warn("⚠️ Provider call failed, retrying", map[string]interface{}{"error": err.Error()})
				return retry.RetryableError(err)
			}
			return err
		}

		if strings.TrimSpace(text) == "" {
			GenerationAttemptsTotal.WithLabelValues(attemptEmpty).Inc()
			lastErr = &GenerationEmptyResponseError{}
			attemptLog.Warn("⚠️ Empty response from model", nil)
			return retry.RetryableError(lastErr)
		}

		result, err := g.validator.Parse(text)
		if err != nil {
			GenerationAttemptsTotal.WithLabelValues(attemptMalformed).Inc()
			// Same prompt, same contract: retrying would repeat the violation.
			attemptLog.Error("❌ Model response failed schema validation", map[string]interface{}{
				"error":          err.Error(),
				"response_chars": len(text),
			})
			return err
		}

		GenerationAttemptsTotal.WithLabelValues(attemptSucceeded).Inc()
		attemptLog.Debug("Model response validated", map[string]interface{}{"response_chars": len(text)})
		gen.Result = result
		return nil
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			if lastErr != nil {
				return gen, lastErr
			}
			return gen, &ProviderError{Retryable: true, Cause: fmt.Errorf("generation aborted: %w", ctxErr)}
		}
		return gen, err
	}

	return gen, nil
}
