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

// LifecycleService drives time-based campaign transitions and the
// deadline reminder sweep. It is run from the worker on tickers and from
// admin endpoints for manual sweeps.
type LifecycleService struct {
	pool            *pgxpool.Pool
	campaignRepo    *repositories.CampaignRepo
	participantRepo *repositories.ParticipantRepo
	reservationRepo *repositories.ReservationRepo
	snapshotRepo    *repositories.SnapshotRepo
	deliverableRepo *repositories.DeliverableRepo
	auditRepo       *repositories.AuditRepo
	publisher       events.Publisher
	notifier        *NotifierClient
	log             *zap.Logger

	reminderWindow time.Duration
	maxReviewing   time.Duration
}

func NewLifecycleService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	participantRepo *repositories.ParticipantRepo,
	reservationRepo *repositories.ReservationRepo,
	snapshotRepo *repositories.SnapshotRepo,
	deliverableRepo *repositories.DeliverableRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	notifier *NotifierClient,
	log *zap.Logger,
	reminderWindow, maxReviewing time.Duration,
) *LifecycleService {
	return &LifecycleService{
		pool:            pool,
		campaignRepo:    campaignRepo,
		participantRepo: participantRepo,
		reservationRepo: reservationRepo,
		snapshotRepo:    snapshotRepo,
		deliverableRepo: deliverableRepo,
		auditRepo:       auditRepo,
		publisher:       publisher,
		notifier:        notifier,
		log:             log,
		reminderWindow:  reminderWindow,
		maxReviewing:    maxReviewing,
	}
}

// CheckTransitions sweeps every non-terminal campaign and applies the
// time-based rules. A failure on one campaign is logged and the sweep
// moves on; status updates are guarded by the expected current status so
// overlapping sweeps cannot double-apply a transition.
func (s *LifecycleService) CheckTransitions(ctx context.Context) error {
	campaigns, err := s.campaignRepo.ListSweepable(ctx)
	if err != nil {
		return fmt.Errorf("list sweepable campaigns: %w", err)
	}

	now := time.Now()
	for i := range campaigns {
		c := &campaigns[i]
		if err := s.sweepOne(ctx, c, now); err != nil {
			s.log.Error("lifecycle sweep failed for campaign",
				zap.String("campaign_id", c.ID.String()),
				zap.String("status", c.Status),
				zap.Error(err))
		}
	}
	return nil
}

func (s *LifecycleService) sweepOne(ctx context.Context, c *models.Campaign, now time.Time) error {
	switch c.Status {
	case models.CampaignStatusDiscovery:
		participants, err := s.participantRepo.ListByCampaign(ctx, c.ID)
		if err != nil {
			return err
		}
		active := 0
		for _, p := range participants {
			if p.Status == models.ParticipantStatusActive {
				active++
			}
		}
		if ShouldActivate(c, now, active) {
			return s.applyTransition(ctx, c, models.CampaignStatusActive, "timeline started with participants")
		}
	case models.CampaignStatusActive:
		if ShouldStartReview(c, now) {
			return s.applyTransition(ctx, c, models.CampaignStatusReviewing, "timeline ended")
		}
	case models.CampaignStatusReviewing:
		participants, err := s.participantRepo.ListByCampaign(ctx, c.ID)
		if err != nil {
			return err
		}
		if complete, reason := ReviewOutcome(c, participants, now, s.maxReviewing); complete {
			if err := s.applyTransition(ctx, c, models.CampaignStatusCompleted, reason); err != nil {
				return err
			}
			if err := s.snapshotRepo.Archive(ctx, s.pool, c, models.SnapshotKindCompletion); err != nil {
				s.log.Error("completion snapshot failed",
					zap.String("campaign_id", c.ID.String()), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *LifecycleService) applyTransition(ctx context.Context, c *models.Campaign, to, reason string) error {
	if !models.IsValidCampaignTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}
	moved, err := s.campaignRepo.UpdateStatus(ctx, s.pool, c.ID, c.Status, to)
	if err != nil {
		return err
	}
	if !moved {
		// Another sweep or an admin got there first.
		return nil
	}
	from := c.Status
	c.Status = to
	if to == models.CampaignStatusReviewing {
		now := time.Now()
		c.ReviewingSince = &now
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorType:  "system",
		Action:     "campaign_status_changed",
		EntityType: "campaign",
		EntityID:   &c.ID,
		Meta:       map[string]any{"from": from, "to": to, "reason": reason},
	})
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id":   c.ID.String(),
			"brand_user_id": c.BrandUserID.String(),
			"from":          from,
			"to":            to,
			"reason":        reason,
		},
	})
	s.log.Info("campaign transitioned",
		zap.String("campaign_id", c.ID.String()),
		zap.String("from", from), zap.String("to", to),
		zap.String("reason", reason))
	return nil
}

// CancelCampaign cancels from any non-terminal status. Held reservations
// are released, a cancellation snapshot is archived, and participants are
// notified best effort.
func (s *LifecycleService) CancelCampaign(ctx context.Context, actor Actor, campaignID uuid.UUID, reason string) error {
	c, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return asNotFound(err)
	}
	if actor.Role != models.RoleAdmin && actor.ID != c.BrandUserID {
		return fmt.Errorf("%w: only the campaign owner or an admin can cancel", ErrNotAuthorized)
	}
	if !models.IsValidCampaignTransition(c.Status, models.CampaignStatusCancelled) {
		return fmt.Errorf("%w: cannot cancel a %s campaign", ErrInvalidTransition, c.Status)
	}

	// The release and snapshot share the transaction of the guarded
	// status flip, so losing to a concurrent status change undoes them.
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	released, err := s.reservationRepo.ReleaseAllForCampaign(ctx, tx, campaignID, models.ReleaseReasonCampaignCancelled)
	if err != nil {
		return err
	}
	if err := s.snapshotRepo.Archive(ctx, tx, c, models.SnapshotKindCancellation); err != nil {
		return err
	}
	moved, err := s.campaignRepo.UpdateStatus(ctx, tx, c.ID, c.Status, models.CampaignStatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: campaign status changed concurrently", ErrInvalidTransition)
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	from := c.Status
	c.Status = models.CampaignStatusCancelled

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_cancelled",
		EntityType:  "campaign",
		EntityID:    &c.ID,
		Meta:        map[string]any{"from": from, "reason": reason, "reservations_released": released},
	})
	_ = s.publisher.Publish(ctx, events.ChannelCampaign, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id":   c.ID.String(),
			"brand_user_id": c.BrandUserID.String(),
			"from":          from,
			"to":            models.CampaignStatusCancelled,
			"reason":        reason,
		},
	})

	participants, err := s.participantRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		s.log.Warn("could not list participants for cancellation notices", zap.Error(err))
		return nil
	}
	for _, p := range participants {
		s.notifier.Send(ctx, Notification{
			UserID:  p.CreatorUserID,
			Type:    "campaign_cancelled",
			Title:   "Campaign cancelled",
			Message: fmt.Sprintf("The campaign %q has been cancelled.", c.Title),
			Metadata: map[string]any{
				"campaign_id": c.ID.String(),
			},
		})
	}
	return nil
}

// CheckDeadlineReminders notifies creators whose deliverables come due
// within the reminder window. Each deadline is marked as reminded before
// moving on, so the sweep never notifies twice.
func (s *LifecycleService) CheckDeadlineReminders(ctx context.Context) error {
	cutoff := time.Now().Add(s.reminderWindow)
	due, err := s.deliverableRepo.ListDueUnreminded(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list due deliverables: %w", err)
	}

	for _, d := range due {
		c, err := s.campaignRepo.GetByID(ctx, d.CampaignID)
		if err != nil {
			s.log.Error("reminder sweep: campaign lookup failed",
				zap.String("deliverable_id", d.ID.String()), zap.Error(err))
			continue
		}
		if err := s.deliverableRepo.MarkReminded(ctx, d.ID); err != nil {
			s.log.Error("reminder sweep: mark failed",
				zap.String("deliverable_id", d.ID.String()), zap.Error(err))
			continue
		}
		s.notifier.SendDeadlineReminder(ctx, d.CreatorUserID, c.Title, d.Type, d.DueAt)
		_ = s.publisher.Publish(ctx, events.ChannelDeadline, events.Event{
			Type: events.EventDeadlineApproaching,
			Payload: map[string]any{
				"deliverable_id":  d.ID.String(),
				"campaign_id":     d.CampaignID.String(),
				"creator_user_id": d.CreatorUserID.String(),
				"due_at":          d.DueAt.Format(time.RFC3339),
			},
		})
	}

	if len(due) > 0 {
		s.log.Info("deadline reminders sent", zap.Int("count", len(due)))
	}
	return nil
}
