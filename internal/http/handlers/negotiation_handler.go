package handlers

import (
	"github.com/creatorlink/backend/internal/http/dto"
	"github.com/creatorlink/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NegotiationHandler struct {
	negotiationService *services.NegotiationService
	log                *zap.Logger
}

func NewNegotiationHandler(negotiationService *services.NegotiationService, log *zap.Logger) *NegotiationHandler {
	return &NegotiationHandler{negotiationService: negotiationService, log: log}
}

func counterInputFrom(invitationID uuid.UUID, req dto.CounterOfferRequest) services.CounterOfferInput {
	return services.CounterOfferInput{
		InvitationID:          invitationID,
		ProposedPayout:        req.ProposedPayout,
		ProposedDeliverables:  deliverablesFrom(req.ProposedDeliverables),
		ProposedTimelineStart: req.ProposedTimelineStart,
		ProposedTimelineEnd:   req.ProposedTimelineEnd,
		Message:               req.Message,
	}
}

func (h *NegotiationHandler) SubmitCounterOffer(c *fiber.Ctx) error {
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}
	var req dto.CounterOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ProposedPayout == nil && len(req.ProposedDeliverables) == 0 &&
		req.ProposedTimelineStart == nil && req.ProposedTimelineEnd == nil {
		return badRequest(c, "a counter-offer must propose at least one change")
	}
	if req.ProposedPayout != nil && *req.ProposedPayout <= 0 {
		return badRequest(c, "proposed_payout must be positive")
	}

	n, err := h.negotiationService.SubmitCounterOffer(c.Context(), actorFrom(c), counterInputFrom(invitationID, req))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: n})
}

func (h *NegotiationHandler) RespondToNegotiation(c *fiber.Ctx) error {
	negotiationID, err := uuid.Parse(c.Params("negotiationId"))
	if err != nil {
		return badRequest(c, "invalid negotiation id")
	}
	var req dto.RespondNegotiationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	switch req.Response {
	case services.NegotiationResponseAccepted, services.NegotiationResponseRejected:
	case services.NegotiationResponseCountered:
		if req.Counter == nil {
			return badRequest(c, "counter proposal is required when countering")
		}
	default:
		return badRequest(c, "response must be accepted, rejected or countered")
	}

	var counter *services.CounterOfferInput
	if req.Counter != nil {
		in := counterInputFrom(uuid.Nil, *req.Counter)
		counter = &in
	}

	n, err := h.negotiationService.RespondToNegotiation(c.Context(), actorFrom(c), negotiationID, req.Response, counter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: n})
}

func (h *NegotiationHandler) ListHistory(c *fiber.Ctx) error {
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid invitation id")
	}

	history, err := h.negotiationService.ListHistory(c.Context(), invitationID)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: history})
}
