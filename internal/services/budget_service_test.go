package services

import (
	"testing"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
)

func TestComputeBudgetImpact(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		allocated    int64
		proposed     int64
		wantAfter    int64
		wantOver     bool
		wantRemain   int64
	}{
		{"fits exactly", 100000, 90000, 10000, 100000, false, 0},
		{"over budget", 100000, 90000, 20000, 110000, true, -10000},
		{"empty campaign", 100000, 0, 25000, 25000, false, 75000},
		{"zero proposed", 100000, 40000, 0, 40000, false, 60000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Campaign{TotalBudget: tt.total, AllocatedBudget: tt.allocated}
			impact := ComputeBudgetImpact(c, tt.proposed)
			if impact.AfterAllocation != tt.wantAfter {
				t.Errorf("AfterAllocation = %d, want %d", impact.AfterAllocation, tt.wantAfter)
			}
			if impact.IsOverBudget != tt.wantOver {
				t.Errorf("IsOverBudget = %v, want %v", impact.IsOverBudget, tt.wantOver)
			}
			if impact.RemainingAfter != tt.wantRemain {
				t.Errorf("RemainingAfter = %d, want %d", impact.RemainingAfter, tt.wantRemain)
			}
		})
	}
}

func TestComputeBudgetImpactUtilization(t *testing.T) {
	c := &models.Campaign{TotalBudget: 200000, AllocatedBudget: 50000}
	impact := ComputeBudgetImpact(c, 50000)
	if impact.UtilizationPercent != 50.0 {
		t.Errorf("UtilizationPercent = %f, want 50.0", impact.UtilizationPercent)
	}

	// Zero total budget must not divide by zero.
	zero := &models.Campaign{TotalBudget: 0}
	impact = ComputeBudgetImpact(zero, 1000)
	if impact.UtilizationPercent != 0 {
		t.Errorf("UtilizationPercent = %f, want 0 for zero total", impact.UtilizationPercent)
	}
	if !impact.IsOverBudget {
		t.Error("any allocation against a zero budget should be over budget")
	}
}

func inv(status string, offered int64, delta *int64) models.Invitation {
	return models.Invitation{
		ID:              uuid.New(),
		Status:          status,
		OfferedPayout:   offered,
		NegotiatedDelta: delta,
	}
}

func TestSummarizeBudget(t *testing.T) {
	delta := int64(5000)
	c := &models.Campaign{TotalBudget: 500000, InfluencerCount: 10, BasePayoutPerInfluencer: 50000}
	invitations := []models.Invitation{
		inv(models.InvitationStatusPending, 50000, nil),
		inv(models.InvitationStatusNegotiating, 50000, &delta),
		inv(models.InvitationStatusAccepted, 60000, nil),
		inv(models.InvitationStatusDeclined, 70000, nil),
		inv(models.InvitationStatusWithdrawn, 80000, nil),
	}

	summary := SummarizeBudget(c, invitations)

	// pending 50000 + negotiating 55000 + accepted 60000
	if summary.AllocatedBudget != 165000 {
		t.Errorf("AllocatedBudget = %d, want 165000", summary.AllocatedBudget)
	}
	if summary.CommittedBudget != 60000 {
		t.Errorf("CommittedBudget = %d, want 60000", summary.CommittedBudget)
	}
	if summary.RemainingBudget != 335000 {
		t.Errorf("RemainingBudget = %d, want 335000", summary.RemainingBudget)
	}
	if summary.UtilizationPercent != 33.0 {
		t.Errorf("UtilizationPercent = %f, want 33.0", summary.UtilizationPercent)
	}

	wantCounts := map[string]int{
		models.InvitationStatusPending:     1,
		models.InvitationStatusNegotiating: 1,
		models.InvitationStatusAccepted:    1,
		models.InvitationStatusDeclined:    1,
		models.InvitationStatusWithdrawn:   1,
	}
	for status, want := range wantCounts {
		if summary.StatusCounts[status] != want {
			t.Errorf("StatusCounts[%s] = %d, want %d", status, summary.StatusCounts[status], want)
		}
	}
}

func TestPlanRedistributionEvenSplit(t *testing.T) {
	// 3 active invitations, declined one frees 30000:
	// each active gets exactly 10000, nothing leaks.
	c := &models.Campaign{TotalBudget: 200000, InfluencerCount: 5}
	declined := inv(models.InvitationStatusDeclined, 30000, nil)
	invitations := []models.Invitation{
		declined,
		inv(models.InvitationStatusPending, 20000, nil),
		inv(models.InvitationStatusAccepted, 20000, nil),
		inv(models.InvitationStatusNegotiating, 20000, nil),
	}

	plan, ok := PlanRedistribution(c, invitations, declined.ID, true)
	if !ok {
		t.Fatal("declined invitation not found in plan")
	}
	if plan.FreedAmount != 30000 {
		t.Errorf("FreedAmount = %d, want 30000", plan.FreedAmount)
	}
	if plan.BonusPerActive != 10000 {
		t.Errorf("BonusPerActive = %d, want 10000", plan.BonusPerActive)
	}
	// 3*20000 existing + 3*10000 bonus
	if plan.NewAllocated != 90000 {
		t.Errorf("NewAllocated = %d, want 90000", plan.NewAllocated)
	}
	if plan.NewRemaining != 110000 {
		t.Errorf("NewRemaining = %d, want 110000", plan.NewRemaining)
	}
	// 5 targets - 3 active
	if plan.RemainingCapacity != 2 {
		t.Errorf("RemainingCapacity = %d, want 2", plan.RemainingCapacity)
	}
	if plan.NewBasePayout != 55000 {
		t.Errorf("NewBasePayout = %d, want 55000", plan.NewBasePayout)
	}
}

func TestPlanRedistributionRemainderStaysInBudget(t *testing.T) {
	c := &models.Campaign{TotalBudget: 100000, InfluencerCount: 3}
	declined := inv(models.InvitationStatusDeclined, 10000, nil)
	invitations := []models.Invitation{
		declined,
		inv(models.InvitationStatusPending, 20000, nil),
		inv(models.InvitationStatusPending, 20000, nil),
		inv(models.InvitationStatusPending, 20000, nil),
	}

	plan, ok := PlanRedistribution(c, invitations, declined.ID, true)
	if !ok {
		t.Fatal("declined invitation not found in plan")
	}
	// floor(10000/3) = 3333, remainder 1 cent stays unallocated
	if plan.BonusPerActive != 3333 {
		t.Errorf("BonusPerActive = %d, want 3333", plan.BonusPerActive)
	}
	if plan.NewAllocated != 60000+3*3333 {
		t.Errorf("NewAllocated = %d, want %d", plan.NewAllocated, 60000+3*3333)
	}
	if plan.NewRemaining != c.TotalBudget-plan.NewAllocated {
		t.Errorf("NewRemaining = %d, want %d", plan.NewRemaining, c.TotalBudget-plan.NewAllocated)
	}
}

func TestPlanRedistributionNoRedistributeFlag(t *testing.T) {
	c := &models.Campaign{TotalBudget: 100000, InfluencerCount: 4}
	declined := inv(models.InvitationStatusDeclined, 25000, nil)
	invitations := []models.Invitation{
		declined,
		inv(models.InvitationStatusPending, 25000, nil),
	}

	plan, ok := PlanRedistribution(c, invitations, declined.ID, false)
	if !ok {
		t.Fatal("declined invitation not found in plan")
	}
	if plan.BonusPerActive != 0 {
		t.Errorf("BonusPerActive = %d, want 0", plan.BonusPerActive)
	}
	if plan.NewAllocated != 25000 {
		t.Errorf("NewAllocated = %d, want 25000", plan.NewAllocated)
	}
	if plan.NewRemaining != 75000 {
		t.Errorf("NewRemaining = %d, want 75000", plan.NewRemaining)
	}
}

func TestPlanRedistributionNeverNegative(t *testing.T) {
	// Allocation aggregate drifted above total; freeing must floor remaining
	// at zero rather than computing a negative number.
	c := &models.Campaign{TotalBudget: 50000, InfluencerCount: 2}
	declined := inv(models.InvitationStatusDeclined, 10000, nil)
	invitations := []models.Invitation{
		declined,
		inv(models.InvitationStatusAccepted, 60000, nil),
	}

	plan, ok := PlanRedistribution(c, invitations, declined.ID, false)
	if !ok {
		t.Fatal("declined invitation not found in plan")
	}
	if plan.NewRemaining != 0 {
		t.Errorf("NewRemaining = %d, want 0 (floored)", plan.NewRemaining)
	}
	if plan.NewAllocated < 0 {
		t.Errorf("NewAllocated = %d, must never be negative", plan.NewAllocated)
	}
	if plan.NewBasePayout != 0 {
		t.Errorf("NewBasePayout = %d, want 0 when nothing remains", plan.NewBasePayout)
	}
}

func TestPlanRedistributionNoCapacityLeft(t *testing.T) {
	c := &models.Campaign{TotalBudget: 100000, InfluencerCount: 2}
	declined := inv(models.InvitationStatusDeclined, 10000, nil)
	invitations := []models.Invitation{
		declined,
		inv(models.InvitationStatusAccepted, 30000, nil),
		inv(models.InvitationStatusAccepted, 30000, nil),
	}

	plan, ok := PlanRedistribution(c, invitations, declined.ID, false)
	if !ok {
		t.Fatal("declined invitation not found in plan")
	}
	if plan.RemainingCapacity != 0 {
		t.Errorf("RemainingCapacity = %d, want 0", plan.RemainingCapacity)
	}
	if plan.NewBasePayout != 0 {
		t.Errorf("NewBasePayout = %d, want 0 with no capacity", plan.NewBasePayout)
	}
}

func TestPlanRedistributionMissingInvitation(t *testing.T) {
	c := &models.Campaign{TotalBudget: 100000, InfluencerCount: 2}
	invitations := []models.Invitation{
		inv(models.InvitationStatusPending, 10000, nil),
	}

	if _, ok := PlanRedistribution(c, invitations, uuid.New(), true); ok {
		t.Error("expected not-found for an invitation id outside the campaign")
	}
}
