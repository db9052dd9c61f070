package models

import (
	"time"

	"github.com/google/uuid"
)

// Negotiation statuses
const (
	NegotiationStatusPending   = "pending"
	NegotiationStatusAccepted  = "accepted"
	NegotiationStatusRejected  = "rejected"
	NegotiationStatusCountered = "countered"
)

// Proposer roles
const (
	ProposedByBrand   = "brand"
	ProposedByCreator = "creator"
)

// CounterpartyRole returns the role expected to respond to a proposal made
// by the given role.
func CounterpartyRole(proposedBy string) string {
	if proposedBy == ProposedByBrand {
		return ProposedByCreator
	}
	return ProposedByBrand
}

// Negotiation is a proposed change to an invitation's payout, deliverables
// or timeline, exchanged between brand and creator. The newest pending row
// for an invitation is the one awaiting a response; everything older is
// read-only history.
type Negotiation struct {
	ID                    uuid.UUID     `json:"id"`
	InvitationID          uuid.UUID     `json:"invitation_id"`
	ProposedBy            string        `json:"proposed_by"`
	ProposedPayout        *int64        `json:"proposed_payout,omitempty"`
	ProposedDeliverables  []Deliverable `json:"proposed_deliverables,omitempty"`
	ProposedTimelineStart *time.Time    `json:"proposed_timeline_start,omitempty"`
	ProposedTimelineEnd   *time.Time    `json:"proposed_timeline_end,omitempty"`
	Message               string        `json:"message"`
	Status                string        `json:"status"`
	CreatedAt             time.Time     `json:"created_at"`
	RespondedAt           *time.Time    `json:"responded_at,omitempty"`
}
