package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/services"
)

type ExportHandler struct {
	exporter services.PDFExporter
	sealer   services.ResultSealer
	log      logger.Logger
}

func NewExportHandler(exporter services.PDFExporter, sealer services.ResultSealer, log logger.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		sealer:   sealer,
		log:      log,
	}
}

func (h *ExportHandler) HandleExportPDF(c *fiber.Ctx) error {
	var req models.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Requête invalide",
		})
	}

	result, err := resolveResult(h.sealer, req.Result, req.SealedResult)
	if err != nil {
		return respondError(c, h.log, err)
	}

	data, pages, err := h.exporter.Render(result)
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, services.PDFFilename))
	c.Set("X-Page-Count", fmt.Sprint(pages))
	return c.Send(data)
}
