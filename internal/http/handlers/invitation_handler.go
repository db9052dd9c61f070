package handlers

import (
	"strconv"

	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
	log               *zap.Logger
}

func NewInvitationHandler(invitationService *services.InvitationService, log *zap.Logger) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService, log: log}
}

func deliverablesFrom(reqs []dto.DeliverableRequest) []models.Deliverable {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]models.Deliverable, 0, len(reqs))
	for _, d := range reqs {
		quantity := d.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		out = append(out, models.Deliverable{Type: d.Type, Quantity: quantity, Description: d.Description})
	}
	return out
}

func (h *InvitationHandler) CreateInvitation(c *fiber.Ctx) error {
	var req dto.CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return badRequest(c, "invalid campaign_id")
	}
	creatorUserID, err := uuid.Parse(req.CreatorUserID)
	if err != nil {
		return badRequest(c, "invalid creator_user_id")
	}
	if req.OfferedPayout <= 0 {
		return badRequest(c, "offered_payout must be positive")
	}

	inv, err := h.invitationService.InviteCreator(c.Context(), actorFrom(c), services.InviteCreatorInput{
		CampaignID:          campaignID,
		CreatorUserID:       creatorUserID,
		OfferedPayout:       req.OfferedPayout,
		Deliverables:        deliverablesFrom(req.Deliverables),
		TimelineStart:       req.TimelineStart,
		TimelineEnd:         req.TimelineEnd,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: inv})
}

func (h *InvitationHandler) GetInvitation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}

	inv, err := h.invitationService.GetInvitation(c.Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: inv})
}

func (h *InvitationHandler) ListInvitations(c *fiber.Ctx) error {
	filter := repositories.InvitationFilter{Limit: 20}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("campaign_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.CampaignID = &id
		}
	}
	// Creators only ever see their own invitations.
	if middleware.GetRole(c) == models.RoleCreator {
		userID := middleware.GetUserID(c)
		filter.CreatorUserID = &userID
	}

	invitations, err := h.invitationService.ListInvitations(c.Context(), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: invitations})
}

func (h *InvitationHandler) AcceptInvitation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}

	if err := h.invitationService.AcceptInvitation(c.Context(), actorFrom(c), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *InvitationHandler) DeclineInvitation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}
	var req dto.DeclineInvitationRequest
	_ = c.BodyParser(&req)

	if err := h.invitationService.DeclineInvitation(c.Context(), actorFrom(c), id, req.Redistribute); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *InvitationHandler) WithdrawInvitation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}

	if err := h.invitationService.WithdrawInvitation(c.Context(), actorFrom(c), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *InvitationHandler) UpdatePayout(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}
	var req dto.UpdatePayoutRequest
	if err := c.BodyParser(&req); err != nil || req.OfferedPayout <= 0 {
		return badRequest(c, "offered_payout must be positive")
	}

	if err := h.invitationService.UpdateInvitationPayout(c.Context(), actorFrom(c), id, req.OfferedPayout); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *InvitationHandler) GetInvitationEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}

	events, err := h.invitationService.GetInvitationEvents(c.Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: events})
}
