package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/repositories"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// RunsHandler exposes the audit trail. Runs carry no personal data.
type RunsHandler struct {
	runRepo repositories.AnalysisRunRepository
	log     logger.Logger
}

func NewRunsHandler(runRepo repositories.AnalysisRunRepository, log logger.Logger) *RunsHandler {
	return &RunsHandler{
		runRepo: runRepo,
		log:     log,
	}
}

func (h *RunsHandler) HandleListRuns(c *fiber.Ctx) error {
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Paramètre limit invalide",
			})
		}
		limit = min(parsed, maxRunsLimit)
	}

	runs, err := h.runRepo.ListRecent(c.UserContext(), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"runs": runs,
	})
}

func (h *RunsHandler) HandleGetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Identifiant invalide",
		})
	}

	run, err := h.runRepo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Analyse introuvable",
			})
		}
		return respondError(c, h.log, err)
	}

	return c.JSON(run)
}

// HandleStats counts runs per status over the last 24 hours.
func (h *RunsHandler) HandleStats(c *fiber.Ctx) error {
	since := time.Now().Add(-24 * time.Hour)

	counts, err := h.runRepo.CountByStatusSince(c.UserContext(), since)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"since":  since,
		"counts": counts,
	})
}
