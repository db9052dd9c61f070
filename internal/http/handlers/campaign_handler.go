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

type CampaignHandler struct {
	campaignService  *services.CampaignService
	budgetService    *services.BudgetService
	lifecycleService *services.LifecycleService
	log              *zap.Logger
}

func NewCampaignHandler(
	campaignService *services.CampaignService,
	budgetService *services.BudgetService,
	lifecycleService *services.LifecycleService,
	log *zap.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService:  campaignService,
		budgetService:    budgetService,
		lifecycleService: lifecycleService,
		log:              log,
	}
}

func campaignInputFrom(req dto.CampaignRequest) services.CampaignInput {
	return services.CampaignInput{
		Title:                   req.Title,
		Brief:                   req.Brief,
		TotalBudget:             req.TotalBudget,
		InfluencerCount:         req.InfluencerCount,
		BasePayoutPerInfluencer: req.BasePayoutPerInfluencer,
		TimelineStart:           req.TimelineStart,
		TimelineEnd:             req.TimelineEnd,
	}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	campaign, err := h.campaignService.CreateCampaign(c.Context(), actorFrom(c), campaignInputFrom(req))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	campaign, err := h.campaignService.UpdateCampaign(c.Context(), actorFrom(c), id, campaignInputFrom(req))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) LaunchCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	campaign, err := h.campaignService.LaunchCampaign(c.Context(), actorFrom(c), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	campaign, err := h.campaignService.GetCampaign(c.Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{Limit: 20}

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
	if c.Query("mine") == "true" || middleware.GetRole(c) == models.RoleBrand {
		userID := middleware.GetUserID(c)
		filter.BrandUserID = &userID
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Context(), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) GetBudgetSummary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	summary, err := h.budgetService.CampaignBudgetSummary(c.Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: summary})
}

func (h *CampaignHandler) GetBudgetImpact(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.BudgetImpactRequest
	if err := c.BodyParser(&req); err != nil || req.ProposedPayout <= 0 {
		return badRequest(c, "proposed_payout must be positive")
	}

	impact, err := h.budgetService.CalculateBudgetImpact(c.Context(), id, req.ProposedPayout)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: impact})
}

func (h *CampaignHandler) CancelCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.CancelCampaignRequest
	_ = c.BodyParser(&req)

	if err := h.lifecycleService.CancelCampaign(c.Context(), actorFrom(c), id, req.Reason); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) ListParticipants(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	participants, err := h.campaignService.ListParticipants(c.Context(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: participants})
}

func (h *CampaignHandler) CompleteParticipant(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return badRequest(c, "invalid participant id")
	}

	if err := h.campaignService.CompleteParticipant(c.Context(), actorFrom(c), campaignID, participantID); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) GetMyParticipation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	participant, err := h.campaignService.GetParticipation(c.Context(), actorFrom(c), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: participant})
}

func (h *CampaignHandler) GetBudgetReservations(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	reservations, err := h.budgetService.ListReservations(c.Context(), actorFrom(c), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: reservations})
}

func (h *CampaignHandler) ListDeliverables(c *fiber.Ctx) error {
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return badRequest(c, "invalid participant id")
	}

	deadlines, err := h.campaignService.ListDeliverables(c.Context(), participantID)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: deadlines})
}

func (h *CampaignHandler) SubmitDeliverable(c *fiber.Ctx) error {
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return badRequest(c, "invalid participant id")
	}
	deliverableID, err := uuid.Parse(c.Params("deliverableId"))
	if err != nil {
		return badRequest(c, "invalid deliverable id")
	}

	if err := h.campaignService.SubmitDeliverable(c.Context(), actorFrom(c), participantID, deliverableID); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) ListSnapshots(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}

	snapshots, err := h.campaignService.ListSnapshots(c.Context(), actorFrom(c), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: snapshots})
}

func (h *CampaignHandler) ScheduleDeliverable(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid campaign id")
	}
	var req dto.ScheduleDeliverableRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	participantID, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		return badRequest(c, "invalid participant_id")
	}
	if req.Type == "" || req.DueAt.IsZero() {
		return badRequest(c, "type and due_at are required")
	}

	participant, err := h.campaignService.ListParticipants(c.Context(), campaignID)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	var creatorUserID uuid.UUID
	for _, p := range participant {
		if p.ID == participantID {
			creatorUserID = p.CreatorUserID
		}
	}
	if creatorUserID == uuid.Nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "participant not found"})
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	var description *string
	if req.Description != "" {
		description = &req.Description
	}
	d := &models.DeliverableDeadline{
		ParticipantID: participantID,
		CampaignID:    campaignID,
		CreatorUserID: creatorUserID,
		Type:          req.Type,
		Quantity:      quantity,
		Description:   description,
		DueAt:         req.DueAt,
	}
	if err := h.campaignService.ScheduleDeliverable(c.Context(), actorFrom(c), d); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: d})
}
