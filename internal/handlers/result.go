package handlers

import (
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/services"
)

// resolveResult prefers the sealed token over a clear-text result.
func resolveResult(sealer services.ResultSealer, result *models.AnalysisResult, sealed string) (*models.AnalysisResult, error) {
	if sealed != "" && sealer != nil {
		return sealer.Open(sealed)
	}
	if result == nil {
		return nil, &services.InputValidationError{Field: "result", Message: services.MsgMissingResult}
	}
	return result, nil
}
