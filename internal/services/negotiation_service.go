package services

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NegotiationService struct {
	pool            *pgxpool.Pool
	negotiationRepo *repositories.NegotiationRepo
	invitationRepo  *repositories.InvitationRepo
	campaignRepo    *repositories.CampaignRepo
	participantRepo *repositories.ParticipantRepo
	invitations     *InvitationService
	auditRepo       *repositories.AuditRepo
	publisher       events.Publisher
	log             *zap.Logger
}

func NewNegotiationService(
	pool *pgxpool.Pool,
	negotiationRepo *repositories.NegotiationRepo,
	invitationRepo *repositories.InvitationRepo,
	campaignRepo *repositories.CampaignRepo,
	participantRepo *repositories.ParticipantRepo,
	invitations *InvitationService,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *NegotiationService {
	return &NegotiationService{
		pool:            pool,
		negotiationRepo: negotiationRepo,
		invitationRepo:  invitationRepo,
		campaignRepo:    campaignRepo,
		participantRepo: participantRepo,
		invitations:     invitations,
		auditRepo:       auditRepo,
		publisher:       publisher,
		log:             log,
	}
}

// actorPartyFor resolves which negotiation side the actor is on, or fails
// with not-authorized when the actor belongs to neither.
func actorPartyFor(actor Actor, campaign *models.Campaign, inv *models.Invitation) (string, error) {
	switch actor.ID {
	case campaign.BrandUserID:
		return models.ProposedByBrand, nil
	case inv.CreatorUserID:
		return models.ProposedByCreator, nil
	}
	return "", fmt.Errorf("%w: not a party to this invitation", ErrNotAuthorized)
}

type CounterOfferInput struct {
	InvitationID          uuid.UUID
	ProposedPayout        *int64
	ProposedDeliverables  []models.Deliverable
	ProposedTimelineStart *time.Time
	ProposedTimelineEnd   *time.Time
	Message               string
}

// SubmitCounterOffer opens or continues a negotiation on an invitation.
// A pending invitation is explicitly moved to negotiating; the status is
// never inferred from the mere existence of negotiation rows.
func (s *NegotiationService) SubmitCounterOffer(ctx context.Context, actor Actor, input CounterOfferInput) (*models.Negotiation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, input.InvitationID)
	if err != nil {
		return nil, asNotFound(err)
	}
	campaign, err := s.campaignRepo.GetByID(ctx, inv.CampaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	party, err := actorPartyFor(actor, campaign, inv)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationStatusPending && inv.Status != models.InvitationStatusNegotiating {
		return nil, fmt.Errorf("%w: cannot negotiate a %s invitation", ErrInvalidTransition, inv.Status)
	}

	n := &models.Negotiation{
		InvitationID:          inv.ID,
		ProposedBy:            party,
		ProposedPayout:        input.ProposedPayout,
		ProposedDeliverables:  input.ProposedDeliverables,
		ProposedTimelineStart: input.ProposedTimelineStart,
		ProposedTimelineEnd:   input.ProposedTimelineEnd,
		Message:               input.Message,
		Status:                models.NegotiationStatusPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.createOffer(ctx, tx, actor, inv, n); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logSubmission(ctx, actor, inv, n)
	return n, nil
}

// createOffer inserts a pending negotiation and moves a still-pending
// invitation to negotiating, all on the caller's transaction.
func (s *NegotiationService) createOffer(ctx context.Context, q repositories.Querier, actor Actor, inv *models.Invitation, n *models.Negotiation) error {
	if err := s.negotiationRepo.Create(ctx, q, n); err != nil {
		return err
	}
	if inv.Status == models.InvitationStatusPending {
		if err := s.invitations.transition(ctx, q, inv, models.InvitationStatusNegotiating, &actor, "counter-offer submitted"); err != nil {
			return err
		}
	}
	return nil
}

func (s *NegotiationService) logSubmission(ctx context.Context, actor Actor, inv *models.Invitation, n *models.Negotiation) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "negotiation_submitted",
		EntityType:  "negotiation",
		EntityID:    &n.ID,
		Meta:        map[string]any{"invitation_id": inv.ID.String(), "proposed_by": n.ProposedBy},
	})
	_ = s.publisher.Publish(ctx, events.ChannelNegotiation, events.Event{
		Type: events.EventNegotiationSubmitted,
		Payload: map[string]any{
			"negotiation_id":  n.ID.String(),
			"invitation_id":   inv.ID.String(),
			"campaign_id":     inv.CampaignID.String(),
			"creator_user_id": inv.CreatorUserID.String(),
			"proposed_by":     n.ProposedBy,
		},
	})
}

// Negotiation responses
const (
	NegotiationResponseAccepted  = "accepted"
	NegotiationResponseRejected  = "rejected"
	NegotiationResponseCountered = "countered"
)

// RespondToNegotiation resolves the newest pending negotiation of an
// invitation. Only the counterparty of the proposer may respond.
//
// Accepting applies the proposed payout into the invitation's offered
// payout (adjusting the campaign allocation through the budget ceiling
// check) and accepts the invitation. Rejecting leaves the invitation
// negotiating. Countering swaps roles and opens a new pending negotiation.
func (s *NegotiationService) RespondToNegotiation(ctx context.Context, actor Actor, negotiationID uuid.UUID, response string, counter *CounterOfferInput) (*models.Negotiation, error) {
	n, err := s.negotiationRepo.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, asNotFound(err)
	}
	inv, err := s.invitationRepo.GetByID(ctx, n.InvitationID)
	if err != nil {
		return nil, asNotFound(err)
	}
	campaign, err := s.campaignRepo.GetByID(ctx, inv.CampaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	party, err := actorPartyFor(actor, campaign, inv)
	if err != nil {
		return nil, err
	}
	if party != models.CounterpartyRole(n.ProposedBy) {
		return nil, fmt.Errorf("%w: the proposing party cannot respond to its own offer", ErrNotAuthorized)
	}
	if n.Status != models.NegotiationStatusPending {
		return nil, fmt.Errorf("%w: negotiation already %s", ErrInvalidTransition, n.Status)
	}
	latest, err := s.negotiationRepo.LatestPending(ctx, inv.ID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if latest.ID != n.ID {
		return nil, fmt.Errorf("%w: a newer counter-offer supersedes this one", ErrInvalidTransition)
	}

	switch response {
	case NegotiationResponseAccepted:
		return n, s.acceptNegotiation(ctx, actor, campaign, inv, n)
	case NegotiationResponseRejected:
		if err := s.negotiationRepo.Resolve(ctx, s.pool, n.ID, models.NegotiationStatusRejected); err != nil {
			return nil, err
		}
		s.logResolution(ctx, actor, n, models.NegotiationStatusRejected)
		return n, nil
	case NegotiationResponseCountered:
		if counter == nil {
			return nil, fmt.Errorf("counter proposal payload is required")
		}
		next := &models.Negotiation{
			InvitationID:          inv.ID,
			ProposedBy:            party,
			ProposedPayout:        counter.ProposedPayout,
			ProposedDeliverables:  counter.ProposedDeliverables,
			ProposedTimelineStart: counter.ProposedTimelineStart,
			ProposedTimelineEnd:   counter.ProposedTimelineEnd,
			Message:               counter.Message,
			Status:                models.NegotiationStatusPending,
		}
		// The resolve and the replacement insert must land together, or a
		// failure would leave the thread with nothing pending.
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback(ctx)
		if err := s.negotiationRepo.Resolve(ctx, tx, n.ID, models.NegotiationStatusCountered); err != nil {
			return nil, err
		}
		if err := s.createOffer(ctx, tx, actor, inv, next); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		s.logResolution(ctx, actor, n, models.NegotiationStatusCountered)
		s.logSubmission(ctx, actor, inv, next)
		return next, nil
	}
	return nil, fmt.Errorf("unknown negotiation response %q", response)
}

func (s *NegotiationService) acceptNegotiation(ctx context.Context, actor Actor, campaign *models.Campaign, inv *models.Invitation, n *models.Negotiation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if adj := PlanPayoutAdjustment(inv, n.ProposedPayout); adj.Apply {
		if adj.AllocationDelta > 0 {
			ok, err := s.campaignRepo.AllocateWithinBudget(ctx, tx, campaign.ID, adj.AllocationDelta)
			if err != nil {
				return err
			}
			if !ok {
				return ErrBudgetExceeded
			}
		} else {
			if err := s.campaignRepo.FreeAllocation(ctx, tx, campaign.ID, -adj.AllocationDelta); err != nil {
				return err
			}
		}
		if err := s.invitationRepo.UpdatePayout(ctx, tx, inv.ID, adj.NewPayout); err != nil {
			return err
		}
		inv.OfferedPayout = adj.NewPayout
	}

	if err := s.negotiationRepo.Resolve(ctx, tx, n.ID, models.NegotiationStatusAccepted); err != nil {
		return err
	}
	if err := s.invitations.transition(ctx, tx, inv, models.InvitationStatusAccepted, &actor, "negotiation accepted"); err != nil {
		return err
	}
	if err := s.participantRepo.Create(ctx, tx, &models.Participant{
		CampaignID:    inv.CampaignID,
		InvitationID:  inv.ID,
		CreatorUserID: inv.CreatorUserID,
		Status:        models.ParticipantStatusActive,
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.logResolution(ctx, actor, n, models.NegotiationStatusAccepted)
	return nil
}

func (s *NegotiationService) logResolution(ctx context.Context, actor Actor, n *models.Negotiation, status string) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "negotiation_" + status,
		EntityType:  "negotiation",
		EntityID:    &n.ID,
		Meta:        map[string]any{"invitation_id": n.InvitationID.String()},
	})
	_ = s.publisher.Publish(ctx, events.ChannelNegotiation, events.Event{
		Type: events.EventNegotiationResolved,
		Payload: map[string]any{
			"negotiation_id": n.ID.String(),
			"invitation_id":  n.InvitationID.String(),
			"status":         status,
		},
	})
}

// ListHistory returns the negotiation history for an invitation, newest
// first; the first pending entry is the one awaiting a response.
func (s *NegotiationService) ListHistory(ctx context.Context, invitationID uuid.UUID) ([]models.Negotiation, error) {
	return s.negotiationRepo.ListByInvitation(ctx, invitationID)
}
