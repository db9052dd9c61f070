package handlers

import (
	"errors"

	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// serviceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func serviceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrBudgetExceeded):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDuplicateInvitation), errors.Is(err, services.ErrInvalidTransition):
		status = fiber.StatusConflict
	default:
		log.Error("unhandled service error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:     "internal error",
			RequestID: requestID(c),
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: requestID(c)})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.CtxRequestID).(string)
	return id
}

func actorFrom(c *fiber.Ctx) services.Actor {
	return services.Actor{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetRole(c),
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: requestID(c)})
}
