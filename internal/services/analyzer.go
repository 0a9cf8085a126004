package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/repositories"
)

type AnalysisOutcome struct {
	Result       *models.AnalysisResult
	SealedResult string
	ExpiresAt    *time.Time
	Attempts     int
}

type AnalyzerService interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*AnalysisOutcome, error)
}

type analyzerService struct {
	extractor     TextExtractor
	promptBuilder *PromptBuilder
	generator     Generator
	postProcessor *PostProcessor
	sealer        ResultSealer
	runRepo       repositories.AnalysisRunRepository
	log           logger.Logger
}

// NewAnalyzerService wires the pipeline. sealer may be nil, runRepo may be a no-op.
func NewAnalyzerService(
	extractor TextExtractor,
	promptBuilder *PromptBuilder,
	generator Generator,
	postProcessor *PostProcessor,
	sealer ResultSealer,
	runRepo repositories.AnalysisRunRepository,
	log logger.Logger,
) AnalyzerService {
	if runRepo == nil {
		runRepo = repositories.NewAnalysisRunRepository(nil)
	}
	return &analyzerService{
		extractor:     extractor,
		promptBuilder: promptBuilder,
		generator:     generator,
		postProcessor: postProcessor,
		sealer:        sealer,
		runRepo:       runRepo,
		log:           log.WithFields(map[string]interface{}{"component": "analyzer"}),
	}
}

func (a *analyzerService) Analyze(ctx context.Context, req *models.AnalysisRequest) (*AnalysisOutcome, error) {
	started := time.Now()
	run := &models.AnalysisRun{Model: a.generator.ModelName()}

	outcome, err := a.analyze(ctx, req, run)

	run.DurationMS = time.Since(started).Milliseconds()
	AnalysisDuration.Observe(time.Since(started).Seconds())
	if outcome != nil {
		run.Attempts = outcome.Attempts
	}

	if err != nil {
		kind := FailureKind(err)
		detail := err.Error()
		failLog := a.log
		// The user-facing message hides library causes; logs and the audit row keep them.
		if cause := errors.Unwrap(err); cause != nil {
			detail = detail + ": " + cause.Error()
			failLog = failLog.WithError(cause)
		}
		run.Status = models.RunFailed
		run.FailureKind = kind
		run.FailureDetail = &detail
		AnalysesTotal.WithLabelValues(string(models.RunFailed), kind).Inc()
		failLog.Warn("⚠️ Analysis failed", map[string]interface{}{
			"failure_kind": kind,
			"error":        detail,
			"attempts":     run.Attempts,
		})
	} else {
		run.Status = models.RunSucceeded
		AnalysesTotal.WithLabelValues(string(models.RunSucceeded), "").Inc()
		a.log.Info("✅ Analysis completed", map[string]interface{}{
			"attempts":    run.Attempts,
			"duration_ms": run.DurationMS,
		})
	}

	a.record(ctx, run)

	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (a *analyzerService) analyze(ctx context.Context, req *models.AnalysisRequest, run *models.AnalysisRun) (*AnalysisOutcome, error) {
	// Configuration first: no partial work without a model.
	if !a.generator.Configured() {
		return nil, &ConfigurationError{Setting: "GEMINI_API_KEY", Message: MsgMissingGeminiKey}
	}

	if req == nil || len(req.Data) == 0 {
		return nil, &InputValidationError{Field: "cv", Message: MsgMissingCV}
	}

	format, err := DetectFormat(req.Filename)
	if err != nil {
		return nil, err
	}
	run.FileFormat = format

	a.log.Info("📄 Extracting résumé text", map[string]interface{}{"format": format, "bytes": len(req.Data)})
	text, err := a.extractor.Extract(req.Filename, req.Data)
	if err != nil {
		return nil, err
	}
	ExtractedDocumentChars.Observe(float64(utf8.RuneCountInString(text)))

	prompt := a.promptBuilder.Build(req.Profile, text, req.Contact)
	run.PromptChars = prompt.Len()
	run.DocumentTruncated = prompt.DocumentTruncated
	if prompt.DocumentTruncated {
		a.log.Warn("✂️ Résumé truncated to fit the prompt bound", map[string]interface{}{"document_chars": utf8.RuneCountInString(text)})
	}

	a.log.Info("🤖 Generating analysis", map[string]interface{}{"prompt_chars": run.PromptChars})
	gen, err := a.generator.Generate(ctx, prompt)
	outcome := &AnalysisOutcome{}
	if gen != nil {
		outcome.Attempts = gen.Attempts
	}
	if err != nil {
		return outcome, err
	}

	outcome.Result = a.postProcessor.ApplyDefaults(gen.Result)

	if a.sealer != nil {
		token, expiresAt, err := a.sealer.Seal(outcome.Result)
		if err != nil {
			return outcome, err
		}
		outcome.SealedResult = token
		outcome.ExpiresAt = &expiresAt
	}

	return outcome, nil
}

// record never fails the analysis: the audit trail is best effort.
func (a *analyzerService) record(ctx context.Context, run *models.AnalysisRun) {
	if err := a.runRepo.Create(context.WithoutCancel(ctx), run); err != nil {
		a.log.Warn("⚠️ Failed to record analysis run", map[string]interface{}{"error": err.Error()})
	}
}
