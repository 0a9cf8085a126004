package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/services"
)

const msgInternal = "Erreur serveur"

// HTTPStatus maps a domain error to its response status.
func HTTPStatus(err error) int {
	var (
		cfgErr    *services.ConfigurationError
		inputErr  *services.InputValidationError
		formatErr *services.UnsupportedFormatError
		fiberErr  *fiber.Error
	)

	switch {
	case errors.As(err, &cfgErr):
		if cfgErr.Optional {
			return fiber.StatusBadRequest
		}
		return fiber.StatusInternalServerError
	case errors.As(err, &inputErr), errors.As(err, &formatErr):
		return fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// publicMessage keeps domain messages and hides anything unexpected.
func publicMessage(err error) string {
	var (
		cfgErr       *services.ConfigurationError
		inputErr     *services.InputValidationError
		formatErr    *services.UnsupportedFormatError
		extractErr   *services.ExtractionError
		providerErr  *services.ProviderError
		emptyErr     *services.GenerationEmptyResponseError
		malformedErr *services.GenerationMalformedResponseError
		emailErr     *services.EmailTransportError
		fiberErr     *fiber.Error
	)

	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case errors.As(err, &inputErr):
		return inputErr.Error()
	case errors.As(err, &formatErr):
		return formatErr.Error()
	case errors.As(err, &extractErr):
		return extractErr.Error()
	case errors.As(err, &providerErr):
		return providerErr.Error()
	case errors.As(err, &emptyErr):
		return emptyErr.Error()
	case errors.As(err, &malformedErr):
		return services.MsgMalformedResponse
	case errors.As(err, &emailErr):
		return emailErr.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Message
	default:
		return msgInternal
	}
}

func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status := HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("❌ Request failed", map[string]interface{}{
			"path":         c.Path(),
			"status":       status,
			"failure_kind": services.FailureKind(err),
			"error":        err.Error(),
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": publicMessage(err),
	})
}

// ErrorHandler renders framework errors with the same {error} body. A body over
// the server limit is reported like any other oversized upload.
func ErrorHandler(log logger.Logger, maxFileSize int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
			err = services.FileTooLarge(maxFileSize)
		}
		return respondError(c, log, err)
	}
}
