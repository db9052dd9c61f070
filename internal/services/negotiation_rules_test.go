package services

import (
	"testing"

	"github.com/creatorlink/backend/internal/models"
)

func TestPlanPayoutAdjustment(t *testing.T) {
	p := func(v int64) *int64 { return &v }

	tests := []struct {
		name     string
		offered  int64
		proposed *int64
		want     PayoutAdjustment
	}{
		{"no proposal", 100000, nil, PayoutAdjustment{}},
		{"unchanged proposal", 100000, p(100000), PayoutAdjustment{}},
		{"raise", 100000, p(120000), PayoutAdjustment{Apply: true, NewPayout: 120000, AllocationDelta: 20000}},
		{"cut", 100000, p(80000), PayoutAdjustment{Apply: true, NewPayout: 80000, AllocationDelta: -20000}},
		{"cut to zero", 50000, p(0), PayoutAdjustment{Apply: true, NewPayout: 0, AllocationDelta: -50000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invitation{OfferedPayout: tt.offered}
			if got := PlanPayoutAdjustment(inv, tt.proposed); got != tt.want {
				t.Errorf("PlanPayoutAdjustment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAcceptanceAppliesProposedPayout(t *testing.T) {
	proposed := int64(130000)
	inv := &models.Invitation{Status: models.InvitationStatusNegotiating, OfferedPayout: 100000}

	adj := PlanPayoutAdjustment(inv, &proposed)
	if !adj.Apply {
		t.Fatal("PlanPayoutAdjustment() did not apply a changed proposal")
	}
	if adj.NewPayout != proposed {
		t.Errorf("NewPayout = %d, want %d", adj.NewPayout, proposed)
	}
	if adj.AllocationDelta != proposed-inv.OfferedPayout {
		t.Errorf("AllocationDelta = %d, want %d", adj.AllocationDelta, proposed-inv.OfferedPayout)
	}
	if !models.IsValidInvitationTransition(inv.Status, models.InvitationStatusAccepted) {
		t.Error("a negotiating invitation must be able to move to accepted")
	}
}
