package services

import "github.com/creatorlink/backend/internal/models"

// PayoutAdjustment is the budget effect of accepting a counter-offer.
type PayoutAdjustment struct {
	Apply           bool
	NewPayout       int64
	AllocationDelta int64
}

// PlanPayoutAdjustment decides how accepting a negotiation changes the
// invitation's offered payout and the campaign allocation. A nil or
// unchanged proposal leaves both untouched; otherwise the proposed payout
// becomes the offered payout and the allocation moves by the difference.
func PlanPayoutAdjustment(inv *models.Invitation, proposedPayout *int64) PayoutAdjustment {
	if proposedPayout == nil || *proposedPayout == inv.OfferedPayout {
		return PayoutAdjustment{}
	}
	return PayoutAdjustment{
		Apply:           true,
		NewPayout:       *proposedPayout,
		AllocationDelta: *proposedPayout - inv.OfferedPayout,
	}
}
