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

type CampaignService struct {
	pool            *pgxpool.Pool
	campaignRepo    *repositories.CampaignRepo
	invitationRepo  *repositories.InvitationRepo
	participantRepo *repositories.ParticipantRepo
	deliverableRepo *repositories.DeliverableRepo
	snapshotRepo    *repositories.SnapshotRepo
	auditRepo       *repositories.AuditRepo
	budget          *BudgetService
	publisher       events.Publisher
	log             *zap.Logger
}

func NewCampaignService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	invitationRepo *repositories.InvitationRepo,
	participantRepo *repositories.ParticipantRepo,
	deliverableRepo *repositories.DeliverableRepo,
	snapshotRepo *repositories.SnapshotRepo,
	auditRepo *repositories.AuditRepo,
	budget *BudgetService,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		pool:            pool,
		campaignRepo:    campaignRepo,
		invitationRepo:  invitationRepo,
		participantRepo: participantRepo,
		deliverableRepo: deliverableRepo,
		snapshotRepo:    snapshotRepo,
		auditRepo:       auditRepo,
		budget:          budget,
		publisher:       publisher,
		log:             log,
	}
}

type CampaignInput struct {
	Title                   string
	Brief                   string
	TotalBudget             int64
	InfluencerCount         int
	BasePayoutPerInfluencer int64
	TimelineStart           time.Time
	TimelineEnd             time.Time
}

func (in CampaignInput) validate() error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case in.TotalBudget <= 0:
		return fmt.Errorf("%w: total budget must be positive", ErrValidation)
	case in.InfluencerCount <= 0:
		return fmt.Errorf("%w: influencer count must be positive", ErrValidation)
	case in.BasePayoutPerInfluencer < 0:
		return fmt.Errorf("%w: base payout cannot be negative", ErrValidation)
	case !in.TimelineEnd.After(in.TimelineStart):
		return fmt.Errorf("%w: timeline end must be after timeline start", ErrValidation)
	}
	if in.BasePayoutPerInfluencer*int64(in.InfluencerCount) > in.TotalBudget {
		return fmt.Errorf("%w: base payout times influencer count exceeds total budget", ErrBudgetExceeded)
	}
	return nil
}

// CreateCampaign opens a new draft. Only brands create campaigns.
func (s *CampaignService) CreateCampaign(ctx context.Context, actor Actor, input CampaignInput) (*models.Campaign, error) {
	if actor.Role != models.RoleBrand {
		return nil, fmt.Errorf("%w: only brands can create campaigns", ErrNotAuthorized)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	c := &models.Campaign{
		BrandUserID:             actor.ID,
		Title:                   input.Title,
		Brief:                   input.Brief,
		TotalBudget:             input.TotalBudget,
		RemainingBudget:         input.TotalBudget,
		InfluencerCount:         input.InfluencerCount,
		BasePayoutPerInfluencer: input.BasePayoutPerInfluencer,
		TimelineStart:           input.TimelineStart,
		TimelineEnd:             input.TimelineEnd,
		Status:                  models.CampaignStatusDraft,
	}
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  "campaign",
		EntityID:    &c.ID,
		Meta:        map[string]any{"total_budget": c.TotalBudget, "influencer_count": c.InfluencerCount},
	})
	return c, nil
}

// UpdateCampaign edits a draft in place. Once launched, the budget and
// timeline are locked and only lifecycle transitions move the record.
func (s *CampaignService) UpdateCampaign(ctx context.Context, actor Actor, id uuid.UUID, input CampaignInput) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, fmt.Errorf("%w: only draft campaigns can be edited", ErrInvalidTransition)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	c.Title = input.Title
	c.Brief = input.Brief
	c.TotalBudget = input.TotalBudget
	c.RemainingBudget = input.TotalBudget - c.AllocatedBudget
	c.InfluencerCount = input.InfluencerCount
	c.BasePayoutPerInfluencer = input.BasePayoutPerInfluencer
	c.TimelineStart = input.TimelineStart
	c.TimelineEnd = input.TimelineEnd
	if err := s.campaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LaunchCampaign moves a draft into discovery, opening it for invitations.
func (s *CampaignService) LaunchCampaign(ctx context.Context, actor Actor, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.IsValidCampaignTransition(c.Status, models.CampaignStatusDiscovery) {
		return nil, fmt.Errorf("%w: cannot launch a %s campaign", ErrInvalidTransition, c.Status)
	}
	moved, err := s.campaignRepo.UpdateStatus(ctx, s.pool, c.ID, c.Status, models.CampaignStatusDiscovery)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("%w: campaign status changed concurrently", ErrInvalidTransition)
	}
	from := c.Status
	c.Status = models.CampaignStatusDiscovery

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_launched",
		EntityType:  "campaign",
		EntityID:    &c.ID,
	})
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id":   c.ID.String(),
			"brand_user_id": c.BrandUserID.String(),
			"from":          from,
			"to":            c.Status,
		},
	})
	return c, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return c, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx, f)
}

func (s *CampaignService) ListParticipants(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error) {
	return s.participantRepo.ListByCampaign(ctx, campaignID)
}

// GetParticipation is the creator-facing lookup of their own participant
// record on a campaign.
func (s *CampaignService) GetParticipation(ctx context.Context, actor Actor, campaignID uuid.UUID) (*models.Participant, error) {
	p, err := s.participantRepo.GetByCampaignAndCreator(ctx, campaignID, actor.ID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return p, nil
}

func (s *CampaignService) ListDeliverables(ctx context.Context, participantID uuid.UUID) ([]models.DeliverableDeadline, error) {
	return s.deliverableRepo.ListByParticipant(ctx, participantID)
}

func (s *CampaignService) ListSnapshots(ctx context.Context, actor Actor, campaignID uuid.UUID) ([]models.CampaignSnapshot, error) {
	if _, err := s.ownedCampaign(ctx, actor, campaignID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListByCampaign(ctx, campaignID)
}

// CompleteParticipant records that a creator's work on a campaign is
// accepted. Used by the brand during the review window; the lifecycle
// sweep completes the campaign once every participant is done.
func (s *CampaignService) CompleteParticipant(ctx context.Context, actor Actor, campaignID, participantID uuid.UUID) error {
	if _, err := s.ownedCampaign(ctx, actor, campaignID); err != nil {
		return err
	}
	if err := s.participantRepo.MarkCompleted(ctx, participantID); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "participant_completed",
		EntityType:  "participant",
		EntityID:    &participantID,
		Meta:        map[string]any{"campaign_id": campaignID.String()},
	})
	return nil
}

// ScheduleDeliverable registers a deadline for a participant's deliverable.
func (s *CampaignService) ScheduleDeliverable(ctx context.Context, actor Actor, d *models.DeliverableDeadline) error {
	c, err := s.campaignRepo.GetByID(ctx, d.CampaignID)
	if err != nil {
		return asNotFound(err)
	}
	if actor.Role != models.RoleAdmin && actor.ID != c.BrandUserID {
		return fmt.Errorf("%w: only the campaign owner can schedule deliverables", ErrNotAuthorized)
	}
	return s.deliverableRepo.Create(ctx, d)
}

// SubmitDeliverable marks a deliverable as submitted by its creator.
func (s *CampaignService) SubmitDeliverable(ctx context.Context, actor Actor, participantID, deliverableID uuid.UUID) error {
	deadlines, err := s.deliverableRepo.ListByParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	for _, d := range deadlines {
		if d.ID != deliverableID {
			continue
		}
		if actor.Role != models.RoleAdmin && actor.ID != d.CreatorUserID {
			return fmt.Errorf("%w: only the assigned creator can submit", ErrNotAuthorized)
		}
		return s.deliverableRepo.MarkSubmitted(ctx, deliverableID)
	}
	return fmt.Errorf("%w: deliverable", ErrNotFound)
}

func (s *CampaignService) ownedCampaign(ctx context.Context, actor Actor, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if actor.Role != models.RoleAdmin && actor.ID != c.BrandUserID {
		return nil, fmt.Errorf("%w: not the campaign owner", ErrNotAuthorized)
	}
	return c, nil
}
