package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/services"
)

type EmailHandler struct {
	mailer   services.Mailer
	sealer   services.ResultSealer
	validate *validator.Validate
	log      logger.Logger
}

func NewEmailHandler(mailer services.Mailer, sealer services.ResultSealer, log logger.Logger) *EmailHandler {
	return &EmailHandler{
		mailer:   mailer,
		sealer:   sealer,
		validate: validator.New(),
		log:      log,
	}
}

func (h *EmailHandler) HandleSendEmail(c *fiber.Ctx) error {
	var req models.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Requête invalide",
		})
	}
	req.To = strings.TrimSpace(req.To)

	if req.To == "" {
		return respondError(c, h.log, &services.InputValidationError{Field: "to", Message: services.MsgMissingRecipient})
	}

	if !h.mailer.Configured() {
		return respondError(c, h.log, &services.ConfigurationError{
			Setting:  "SMTP_HOST",
			Optional: true,
			Message:  services.MsgMailNotConfigured,
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, h.log, &services.InputValidationError{Field: "to", Message: services.MsgInvalidRecipient})
	}

	result, err := resolveResult(h.sealer, req.Result, req.SealedResult)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.mailer.Send(c.UserContext(), req.To, result); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.OKResponse{OK: true})
}
