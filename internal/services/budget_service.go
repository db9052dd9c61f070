package services

import (
	"context"
	"fmt"

	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BudgetImpact describes what allocating one more payout would do to a
// campaign's budget. Pure read, no mutation.
type BudgetImpact struct {
	CurrentAllocated        int64   `json:"current_allocated"`
	AfterAllocation         int64   `json:"after_allocation"`
	RemainingAfter          int64   `json:"remaining_after"`
	UtilizationPercent      float64 `json:"utilization_percent"`
	IsOverBudget            bool    `json:"is_over_budget"`
	BasePayoutPerInfluencer int64   `json:"base_payout_per_influencer"`
}

// BudgetSummary aggregates a campaign's invitations into the numbers shown
// on the budget dashboard.
type BudgetSummary struct {
	TotalBudget             int64          `json:"total_budget"`
	AllocatedBudget         int64          `json:"allocated_budget"`
	CommittedBudget         int64          `json:"committed_budget"`
	RemainingBudget         int64          `json:"remaining_budget"`
	TargetInfluencers       int            `json:"target_influencers"`
	BasePayoutPerInfluencer int64          `json:"base_payout_per_influencer"`
	StatusCounts            map[string]int `json:"status_counts"`
	UtilizationPercent      float64        `json:"utilization_percent"`
}

// RedistributionPlan is the computed outcome of freeing a declined
// invitation's budget, before it is persisted.
type RedistributionPlan struct {
	FreedAmount       int64
	ActiveIDs         []uuid.UUID
	BonusPerActive    int64
	NewAllocated      int64
	NewRemaining      int64
	RemainingCapacity int
	NewBasePayout     int64
}

// ComputeBudgetImpact is the arithmetic behind CalculateBudgetImpact,
// separated so it can be exercised without a database.
func ComputeBudgetImpact(c *models.Campaign, proposedPayout int64) BudgetImpact {
	after := c.AllocatedBudget + proposedPayout
	utilization := 0.0
	if c.TotalBudget > 0 {
		utilization = float64(after) / float64(c.TotalBudget) * 100
	}
	return BudgetImpact{
		CurrentAllocated:        c.AllocatedBudget,
		AfterAllocation:         after,
		RemainingAfter:          c.TotalBudget - after,
		UtilizationPercent:      utilization,
		IsOverBudget:            after > c.TotalBudget,
		BasePayoutPerInfluencer: c.BasePayoutPerInfluencer,
	}
}

// SummarizeBudget scans a campaign's invitations. Pending, negotiating and
// accepted invitations count toward allocated; only accepted ones count
// toward committed.
func SummarizeBudget(c *models.Campaign, invitations []models.Invitation) BudgetSummary {
	summary := BudgetSummary{
		TotalBudget:             c.TotalBudget,
		TargetInfluencers:       c.InfluencerCount,
		BasePayoutPerInfluencer: c.BasePayoutPerInfluencer,
		StatusCounts:            make(map[string]int),
	}

	for i := range invitations {
		inv := &invitations[i]
		summary.StatusCounts[inv.Status]++
		if models.InvitationAllocates(inv.Status) {
			summary.AllocatedBudget += inv.CommittedAmount()
		}
		if inv.Status == models.InvitationStatusAccepted {
			summary.CommittedBudget += inv.CommittedAmount()
		}
	}

	summary.RemainingBudget = c.TotalBudget - summary.AllocatedBudget
	if c.TotalBudget > 0 {
		summary.UtilizationPercent = float64(summary.AllocatedBudget) / float64(c.TotalBudget) * 100
	}
	return summary
}

// PlanRedistribution recomputes the allocation aggregate after one
// invitation was declined or withdrawn and, when redistribute is set,
// spreads the freed amount evenly over the remaining active invitations.
// Integer division truncates; the remainder stays in remaining_budget.
func PlanRedistribution(c *models.Campaign, invitations []models.Invitation, freedID uuid.UUID, redistribute bool) (RedistributionPlan, bool) {
	var plan RedistributionPlan
	found := false

	for i := range invitations {
		inv := &invitations[i]
		if inv.ID == freedID {
			plan.FreedAmount = inv.CommittedAmount()
			found = true
			continue
		}
		if models.InvitationAllocates(inv.Status) {
			plan.NewAllocated += inv.CommittedAmount()
			plan.ActiveIDs = append(plan.ActiveIDs, inv.ID)
		}
	}
	if !found {
		return plan, false
	}

	activeCount := len(plan.ActiveIDs)
	if redistribute && plan.FreedAmount > 0 && activeCount > 0 {
		plan.BonusPerActive = plan.FreedAmount / int64(activeCount)
		plan.NewAllocated += plan.BonusPerActive * int64(activeCount)
	}

	plan.NewRemaining = c.TotalBudget - plan.NewAllocated
	if plan.NewRemaining < 0 {
		plan.NewRemaining = 0
	}

	plan.RemainingCapacity = c.InfluencerCount - activeCount
	if plan.RemainingCapacity > 0 {
		plan.NewBasePayout = plan.NewRemaining / int64(plan.RemainingCapacity)
	}
	return plan, true
}

// BudgetService maintains each campaign's allocated_budget as a derived,
// persisted aggregate.
type BudgetService struct {
	pool            *pgxpool.Pool
	campaignRepo    *repositories.CampaignRepo
	invitationRepo  *repositories.InvitationRepo
	reservationRepo *repositories.ReservationRepo
	auditRepo       *repositories.AuditRepo
	log             *zap.Logger
}

func NewBudgetService(
	pool *pgxpool.Pool,
	campaignRepo *repositories.CampaignRepo,
	invitationRepo *repositories.InvitationRepo,
	reservationRepo *repositories.ReservationRepo,
	auditRepo *repositories.AuditRepo,
	log *zap.Logger,
) *BudgetService {
	return &BudgetService{
		pool:            pool,
		campaignRepo:    campaignRepo,
		invitationRepo:  invitationRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		log:             log,
	}
}

func (s *BudgetService) CalculateBudgetImpact(ctx context.Context, campaignID uuid.UUID, proposedPayout int64) (*BudgetImpact, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	impact := ComputeBudgetImpact(campaign, proposedPayout)
	return &impact, nil
}

func (s *BudgetService) CampaignBudgetSummary(ctx context.Context, campaignID uuid.UUID) (*BudgetSummary, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	invitations, err := s.invitationRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	summary := SummarizeBudget(campaign, invitations)
	return &summary, nil
}

// ListReservations returns the campaign's reservation ledger, held and
// released rows alike, for the owning brand.
func (s *BudgetService) ListReservations(ctx context.Context, actor Actor, campaignID uuid.UUID) ([]models.BudgetReservation, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if actor.Role != models.RoleAdmin && campaign.BrandUserID != actor.ID {
		return nil, fmt.Errorf("%w: not the campaign owner", ErrNotAuthorized)
	}
	return s.reservationRepo.ListByCampaign(ctx, campaignID)
}

// HandleDeclinedInvitation recomputes the campaign's allocation after a
// decline and optionally redistributes the freed amount over the remaining
// active invitations. The payout bonuses and the new aggregate commit in
// one transaction.
func (s *BudgetService) HandleDeclinedInvitation(ctx context.Context, campaignID, declinedID uuid.UUID, redistribute bool) (*RedistributionPlan, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, asNotFound(err)
	}
	invitations, err := s.invitationRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	plan, ok := PlanRedistribution(campaign, invitations, declinedID, redistribute)
	if !ok {
		return nil, ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if plan.BonusPerActive > 0 {
		if err := s.invitationRepo.AddPayoutBonus(ctx, tx, plan.ActiveIDs, plan.BonusPerActive); err != nil {
			return nil, err
		}
	}
	if err := s.campaignRepo.SetBudgetState(ctx, tx, campaignID, plan.NewAllocated, plan.NewRemaining, plan.NewBasePayout); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorType:  "system",
		Action:     "budget_redistributed",
		EntityType: "campaign",
		EntityID:   &campaignID,
		Meta: map[string]any{
			"declined_invitation_id": declinedID.String(),
			"freed_amount":           plan.FreedAmount,
			"bonus_per_active":       plan.BonusPerActive,
			"new_allocated":          plan.NewAllocated,
		},
	})

	s.log.Info("declined invitation budget handled",
		zap.String("campaign_id", campaignID.String()),
		zap.Int64("freed_amount", plan.FreedAmount),
		zap.Int64("bonus_per_active", plan.BonusPerActive),
		zap.Int("active_count", len(plan.ActiveIDs)),
	)
	return &plan, nil
}
