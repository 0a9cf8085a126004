package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// AnalysisRun is the audit trail of one analysis. It never carries résumé text,
// questionnaire answers, contact data or generated narrative.
type AnalysisRun struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Status            RunStatus `gorm:"type:text;not null" json:"status"`
	FailureKind       string    `gorm:"type:text" json:"failure_kind,omitempty"`
	FileFormat        string    `gorm:"type:text" json:"file_format"`
	Model             string    `gorm:"type:text" json:"model"`
	Attempts          int       `gorm:"not null;default:0" json:"attempts"`
	PromptChars       int       `gorm:"not null;default:0" json:"prompt_chars"`
	DocumentTruncated bool      `gorm:"not null;default:false" json:"document_truncated"`
	DurationMS        int64     `gorm:"not null;default:0" json:"duration_ms"`
	FailureDetail     *string   `gorm:"type:text" json:"failure_detail,omitempty"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
