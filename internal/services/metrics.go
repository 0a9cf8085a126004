package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declic_analyses_total",
			Help: "Analyses processed, by final status and failure kind",
		},
		[]string{"status", "failure_kind"},
	)

	GenerationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declic_generation_attempts_total",
			Help: "Model calls, by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "declic_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
	)

	ExtractedDocumentChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "declic_extracted_document_chars",
			Help:    "Characters extracted from uploaded résumés",
			Buckets: prometheus.ExponentialBuckets(500, 2, 9),
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "declic_emails_sent_total",
			Help: "Result emails, by transport and status",
		},
		[]string{"transport", "status"},
	)
)

const (
	attemptSucceeded = "succeeded"
	attemptProvider  = "provider_error"
	attemptEmpty     = "empty_response"
	attemptMalformed = "malformed_response"
)
