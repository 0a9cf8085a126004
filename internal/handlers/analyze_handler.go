package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/services"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	maxFileSize int64
	log         logger.Logger
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, maxFileSize int64, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	req := &models.AnalysisRequest{
		Profile: models.ProfileInput{
			CurrentRole:   c.FormValue("current_role"),
			Seniority:     c.FormValue("seniority"),
			Industry:      c.FormValue("industry"),
			Goals:         c.FormValue("goals"),
			StrengthsSelf: c.FormValue("strengths_self"),
			Constraints:   c.FormValue("constraints"),
		},
		Contact: models.ContactInfo{
			Email: c.FormValue("email"),
			Phone: c.FormValue("phone"),
		},
	}

	// A missing file is reported by the analyzer, after the configuration check.
	if file := formFile(c, "cv"); file != nil {
		data, err := services.ReadUpload(file, h.maxFileSize)
		if err != nil {
			return respondError(c, h.log, err)
		}
		req.Filename = file.Filename
		req.Data = data
	}

	outcome, err := h.analyzer.Analyze(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.AnalyzeResponse{
		OK:           true,
		Result:       outcome.Result,
		SealedResult: outcome.SealedResult,
		ExpiresAt:    outcome.ExpiresAt,
	})
}

func formFile(c *fiber.Ctx, key string) *multipart.FileHeader {
	file, err := c.FormFile(key)
	if err != nil {
		return nil
	}
	return file
}
