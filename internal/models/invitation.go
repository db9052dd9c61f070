package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation statuses
const (
	InvitationStatusPending     = "pending"
	InvitationStatusNegotiating = "negotiating"
	InvitationStatusAccepted    = "accepted"
	InvitationStatusDeclined    = "declined"
	InvitationStatusWithdrawn   = "withdrawn"
)

// Valid invitation state transitions: from -> []to
var ValidInvitationTransitions = map[string][]string{
	InvitationStatusPending: {
		InvitationStatusNegotiating, InvitationStatusAccepted,
		InvitationStatusDeclined, InvitationStatusWithdrawn,
	},
	InvitationStatusNegotiating: {InvitationStatusAccepted, InvitationStatusDeclined},
	InvitationStatusAccepted:    {},
	InvitationStatusDeclined:    {},
	InvitationStatusWithdrawn:   {},
}

func IsValidInvitationTransition(from, to string) bool {
	allowed, ok := ValidInvitationTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// InvitationAllocates reports whether an invitation in the given status
// counts toward the campaign's allocated budget.
func InvitationAllocates(status string) bool {
	switch status {
	case InvitationStatusPending, InvitationStatusNegotiating, InvitationStatusAccepted:
		return true
	}
	return false
}

// Deliverable is one unit of agreed creator output, carried on invitations
// as an ordered list.
type Deliverable struct {
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// Invitation is an offer from a brand to a specific creator to join a
// campaign at a given payout. Money fields are cents.
type Invitation struct {
	ID                  uuid.UUID     `json:"id"`
	CampaignID          uuid.UUID     `json:"campaign_id"`
	CreatorUserID       uuid.UUID     `json:"creator_user_id"`
	BasePayout          int64         `json:"base_payout"`
	OfferedPayout       int64         `json:"offered_payout"`
	NegotiatedDelta     *int64        `json:"negotiated_delta,omitempty"`
	Deliverables        []Deliverable `json:"deliverables,omitempty"`
	TimelineStart       *time.Time    `json:"timeline_start,omitempty"`
	TimelineEnd         *time.Time    `json:"timeline_end,omitempty"`
	SpecialRequirements *string       `json:"special_requirements,omitempty"`
	Status              string        `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// CommittedAmount is the budget this invitation holds against the campaign:
// the offered payout plus any negotiated delta.
func (i *Invitation) CommittedAmount() int64 {
	amount := i.OfferedPayout
	if i.NegotiatedDelta != nil {
		amount += *i.NegotiatedDelta
	}
	return amount
}

// InvitationWithCampaign embeds Invitation plus campaign display fields to
// avoid N+1 queries on list endpoints.
type InvitationWithCampaign struct {
	Invitation
	CampaignTitle  string `json:"campaign_title"`
	CampaignStatus string `json:"campaign_status"`
}
