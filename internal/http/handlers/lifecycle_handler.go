package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LifecycleHandler exposes manual sweep triggers for admins. The worker
// runs the same sweeps on tickers.
type LifecycleHandler struct {
	lifecycleService *services.LifecycleService
	log              *zap.Logger
}

func NewLifecycleHandler(lifecycleService *services.LifecycleService, log *zap.Logger) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService: lifecycleService, log: log}
}

func (h *LifecycleHandler) RunTransitionSweep(c *fiber.Ctx) error {
	if err := h.lifecycleService.CheckTransitions(c.Context()); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *LifecycleHandler) RunReminderSweep(c *fiber.Ctx) error {
	if err := h.lifecycleService.CheckDeadlineReminders(c.Context()); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
