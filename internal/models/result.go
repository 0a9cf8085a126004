package models

import "time"

type AnalyzeResponse struct {
	OK           bool            `json:"ok"`
	Result       *AnalysisResult `json:"result"`
	SealedResult string          `json:"sealed_result,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

type EmailRequest struct {
	To           string          `json:"to" validate:"required,email"`
	Result       *AnalysisResult `json:"result,omitempty"`
	SealedResult string          `json:"sealed_result,omitempty"`
}

type ExportRequest struct {
	Result       *AnalysisResult `json:"result,omitempty"`
	SealedResult string          `json:"sealed_result,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
