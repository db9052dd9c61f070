package handlers

import (
	"regexp"

	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/socialstats"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var handleRE = regexp.MustCompile(`^[A-Za-z0-9_]{3,64}$`)

// CreatorHandler exposes public channel stats for a creator handle, so
// brands can gauge reach before inviting.
type CreatorHandler struct {
	fetcher *socialstats.Fetcher
	log     *zap.Logger
}

func NewCreatorHandler(fetcher *socialstats.Fetcher, log *zap.Logger) *CreatorHandler {
	return &CreatorHandler{fetcher: fetcher, log: log}
}

func (h *CreatorHandler) GetStats(c *fiber.Ctx) error {
	handle := c.Params("handle")
	if !handleRE.MatchString(handle) {
		return badRequest(c, "invalid handle")
	}

	stats, err := h.fetcher.Fetch(c.Context(), handle)
	if err != nil {
		h.log.Warn("stats fetch failed", zap.String("handle", handle), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:     "could not fetch creator stats",
			RequestID: requestID(c),
		})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}
