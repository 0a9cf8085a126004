package services

import (
	"strings"

	"alfredoptarigan/declic-pro/internal/models"
)

const (
	DefaultCTALabel = "Découvrir mon plan de formation DAP"
	DefaultCTAURL   = "https://exemple.com/dap"
)

// PostProcessor fills the training call-to-action when the model left it out.
type PostProcessor struct {
	defaultCTA models.TrainingCTA
}

func NewPostProcessor(label, url string) *PostProcessor {
	if strings.TrimSpace(label) == "" {
		label = DefaultCTALabel
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultCTAURL
	}
	return &PostProcessor{defaultCTA: models.TrainingCTA{Label: label, URL: url}}
}

// ApplyDefaults is idempotent and leaves every other field untouched.
func (p *PostProcessor) ApplyDefaults(result *models.AnalysisResult) *models.AnalysisResult {
	if result == nil {
		return nil
	}

	if result.DAPTrainingCTA == nil || strings.TrimSpace(result.DAPTrainingCTA.URL) == "" {
		cta := p.defaultCTA
		result.DAPTrainingCTA = &cta
	}

	return result
}
