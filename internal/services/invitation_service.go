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

type InvitationService struct {
	pool            *pgxpool.Pool
	invitationRepo  *repositories.InvitationRepo
	campaignRepo    *repositories.CampaignRepo
	participantRepo *repositories.ParticipantRepo
	reservationRepo *repositories.ReservationRepo
	auditRepo       *repositories.AuditRepo
	budget          *BudgetService
	publisher       events.Publisher
	log             *zap.Logger
}

func NewInvitationService(
	pool *pgxpool.Pool,
	invitationRepo *repositories.InvitationRepo,
	campaignRepo *repositories.CampaignRepo,
	participantRepo *repositories.ParticipantRepo,
	reservationRepo *repositories.ReservationRepo,
	auditRepo *repositories.AuditRepo,
	budget *BudgetService,
	publisher events.Publisher,
	log *zap.Logger,
) *InvitationService {
	return &InvitationService{
		pool:            pool,
		invitationRepo:  invitationRepo,
		campaignRepo:    campaignRepo,
		participantRepo: participantRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		budget:          budget,
		publisher:       publisher,
		log:             log,
	}
}

// transition validates and performs an invitation status change with audit
// logging and an event. Status never changes anywhere else.
func (s *InvitationService) transition(ctx context.Context, q repositories.Querier, inv *models.Invitation, newStatus string, actor *Actor, reason string) error {
	if !models.IsValidInvitationTransition(inv.Status, newStatus) {
		return fmt.Errorf("%w: invitation %s to %s", ErrInvalidTransition, inv.Status, newStatus)
	}

	oldStatus := inv.Status
	if err := s.invitationRepo.UpdateStatus(ctx, q, inv.ID, newStatus); err != nil {
		return err
	}
	inv.Status = newStatus

	var actorID *uuid.UUID
	actorType := "system"
	if actor != nil {
		actorID = &actor.ID
		actorType = "user"
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("invitation_%s_to_%s", oldStatus, newStatus),
		EntityType:  "invitation",
		EntityID:    &inv.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus, "reason": reason},
	})

	_ = s.publisher.Publish(ctx, events.ChannelInvitation, events.Event{
		Type: events.EventInvitationStatusChanged,
		Payload: map[string]any{
			"invitation_id":   inv.ID.String(),
			"campaign_id":     inv.CampaignID.String(),
			"creator_user_id": inv.CreatorUserID.String(),
			"old_status":      oldStatus,
			"new_status":      newStatus,
		},
	})
	return nil
}

type InviteCreatorInput struct {
	CampaignID          uuid.UUID
	CreatorUserID       uuid.UUID
	BasePayout          int64
	OfferedPayout       int64
	Deliverables        []models.Deliverable
	TimelineStart       *time.Time
	TimelineEnd         *time.Time
	SpecialRequirements *string
}

// InviteCreator creates a pending invitation and allocates its payout
// against the campaign budget. The invitation row, the allocation update
// and the budget reservation are one transaction, and the allocation is a
// conditional increment so two concurrent invites cannot both pass the
// budget check against a stale aggregate.
func (s *InvitationService) InviteCreator(ctx context.Context, actor Actor, input InviteCreatorInput) (*models.Invitation, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, input.CampaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if campaign.BrandUserID != actor.ID {
		return nil, fmt.Errorf("%w: only the owning brand can invite creators", ErrNotAuthorized)
	}

	// Duplicate invites are never allowed, even to a previously declined or
	// withdrawn creator.
	exists, err := s.invitationRepo.ExistsForPair(ctx, input.CampaignID, input.CreatorUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateInvitation
	}

	impact := ComputeBudgetImpact(campaign, input.OfferedPayout)
	if impact.IsOverBudget {
		return nil, fmt.Errorf("%w: allocating %d would exceed total budget %d", ErrBudgetExceeded, input.OfferedPayout, campaign.TotalBudget)
	}

	basePayout := input.BasePayout
	if basePayout == 0 {
		basePayout = campaign.BasePayoutPerInfluencer
	}

	inv := &models.Invitation{
		CampaignID:          input.CampaignID,
		CreatorUserID:       input.CreatorUserID,
		BasePayout:          basePayout,
		OfferedPayout:       input.OfferedPayout,
		Deliverables:        input.Deliverables,
		TimelineStart:       input.TimelineStart,
		TimelineEnd:         input.TimelineEnd,
		SpecialRequirements: input.SpecialRequirements,
		Status:              models.InvitationStatusPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.campaignRepo.AllocateWithinBudget(ctx, tx, campaign.ID, input.OfferedPayout)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent allocation consumed the capacity since the impact check.
		return nil, ErrBudgetExceeded
	}
	if err := s.invitationRepo.Create(ctx, tx, inv); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, &models.BudgetReservation{
		CampaignID:   campaign.ID,
		InvitationID: &inv.ID,
		Amount:       input.OfferedPayout,
		Status:       models.ReservationStatusHeld,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "invitation_created",
		EntityType:  "invitation",
		EntityID:    &inv.ID,
		Meta:        map[string]any{"campaign_id": campaign.ID.String(), "offered_payout": input.OfferedPayout},
	})
	_ = s.publisher.Publish(ctx, events.ChannelInvitation, events.Event{
		Type: events.EventInvitationCreated,
		Payload: map[string]any{
			"invitation_id":   inv.ID.String(),
			"campaign_id":     campaign.ID.String(),
			"creator_user_id": inv.CreatorUserID.String(),
			"offered_payout":  input.OfferedPayout,
		},
	})

	return inv, nil
}

// WithdrawInvitation is the brand pulling a pending offer back. The freed
// payout returns to the campaign budget, floored at zero.
func (s *InvitationService) WithdrawInvitation(ctx context.Context, actor Actor, invitationID uuid.UUID) error {
	inv, campaign, err := s.loadInvitationAndCampaign(ctx, invitationID)
	if err != nil {
		return err
	}
	if campaign.BrandUserID != actor.ID {
		return fmt.Errorf("%w: only the owning brand can withdraw invitations", ErrNotAuthorized)
	}

	freed := inv.CommittedAmount()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.transition(ctx, tx, inv, models.InvitationStatusWithdrawn, &actor, "withdrawn by brand"); err != nil {
		return err
	}
	if err := s.campaignRepo.FreeAllocation(ctx, tx, campaign.ID, freed); err != nil {
		return err
	}
	if err := s.reservationRepo.ReleaseForInvitation(ctx, tx, inv.ID, "Invitation withdrawn"); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateInvitationPayout replaces the offered payout, adjusting the
// campaign allocation by the delta. Increases go through the same
// conditional increment as invite creation, so the budget ceiling is
// re-validated here too.
func (s *InvitationService) UpdateInvitationPayout(ctx context.Context, actor Actor, invitationID uuid.UUID, newPayout int64) error {
	inv, campaign, err := s.loadInvitationAndCampaign(ctx, invitationID)
	if err != nil {
		return err
	}
	if campaign.BrandUserID != actor.ID {
		return fmt.Errorf("%w: only the owning brand can change payouts", ErrNotAuthorized)
	}
	if !models.InvitationAllocates(inv.Status) {
		return fmt.Errorf("%w: invitation is %s", ErrInvalidTransition, inv.Status)
	}

	delta := newPayout - inv.OfferedPayout
	if delta == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if delta > 0 {
		ok, err := s.campaignRepo.AllocateWithinBudget(ctx, tx, campaign.ID, delta)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBudgetExceeded
		}
	} else {
		if err := s.campaignRepo.FreeAllocation(ctx, tx, campaign.ID, -delta); err != nil {
			return err
		}
	}
	if err := s.invitationRepo.UpdatePayout(ctx, tx, inv.ID, newPayout); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "invitation_payout_updated",
		EntityType:  "invitation",
		EntityID:    &inv.ID,
		Meta:        map[string]any{"old_payout": inv.OfferedPayout, "new_payout": newPayout},
	})
	return nil
}

// AcceptInvitation is the invited creator joining the campaign. Budget was
// already allocated at invite time; this only flips status and registers
// the participant.
func (s *InvitationService) AcceptInvitation(ctx context.Context, actor Actor, invitationID uuid.UUID) error {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return asNotFound(err)
	}
	if inv.CreatorUserID != actor.ID {
		return fmt.Errorf("%w: only the invited creator can accept", ErrNotAuthorized)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.transition(ctx, tx, inv, models.InvitationStatusAccepted, &actor, "accepted by creator"); err != nil {
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
	return tx.Commit(ctx)
}

// DeclineInvitation is the invited creator turning the offer down. The
// budget ledger then recomputes the campaign allocation and optionally
// redistributes the freed amount.
func (s *InvitationService) DeclineInvitation(ctx context.Context, actor Actor, invitationID uuid.UUID, redistribute bool) error {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return asNotFound(err)
	}
	if inv.CreatorUserID != actor.ID {
		return fmt.Errorf("%w: only the invited creator can decline", ErrNotAuthorized)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.transition(ctx, tx, inv, models.InvitationStatusDeclined, &actor, "declined by creator"); err != nil {
		return err
	}
	if err := s.reservationRepo.ReleaseForInvitation(ctx, tx, inv.ID, "Invitation declined"); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if _, err := s.budget.HandleDeclinedInvitation(ctx, inv.CampaignID, inv.ID, redistribute); err != nil {
		// The decline itself committed; a failed recompute is logged so the
		// drift is visible, and the next summary read recomputes anyway.
		s.log.Error("budget recompute after decline failed",
			zap.String("invitation_id", inv.ID.String()),
			zap.String("campaign_id", inv.CampaignID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (s *InvitationService) GetInvitation(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return inv, nil
}

func (s *InvitationService) ListInvitations(ctx context.Context, f repositories.InvitationFilter) ([]models.InvitationWithCampaign, error) {
	return s.invitationRepo.ListWithCampaign(ctx, f)
}

func (s *InvitationService) GetInvitationEvents(ctx context.Context, invitationID uuid.UUID) ([]models.AuditLog, error) {
	return s.auditRepo.GetByEntity(ctx, "invitation", invitationID, 100, 0)
}

func (s *InvitationService) loadInvitationAndCampaign(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, *models.Campaign, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, nil, asNotFound(err)
	}
	campaign, err := s.campaignRepo.GetByID(ctx, inv.CampaignID)
	if err != nil {
		return nil, nil, asNotFound(err)
	}
	return inv, campaign, nil
}
