package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation statuses
const (
	ReservationStatusHeld     = "held"
	ReservationStatusReleased = "released"
)

// ReleaseReasonCampaignCancelled is recorded on every reservation released
// by a campaign cancellation. The ledger exposes it verbatim, so the text
// is part of the API surface.
const ReleaseReasonCampaignCancelled = "Campaign cancelled"

// BudgetReservation is a ledger entry for budget set aside when an
// invitation commits part of a campaign's budget. Reservations are released
// back on campaign cancellation, never deleted.
type BudgetReservation struct {
	ID             uuid.UUID  `json:"id"`
	CampaignID     uuid.UUID  `json:"campaign_id"`
	InvitationID   *uuid.UUID `json:"invitation_id,omitempty"`
	Amount         int64      `json:"amount"`
	Status         string     `json:"status"`
	ReleasedAt     *time.Time `json:"released_at,omitempty"`
	ReleasedReason *string    `json:"released_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DeliverableDeadline tracks one due deliverable for a participant. The
// reminder sweep sends at most one reminder per row, recorded via
// ReminderSentAt.
type DeliverableDeadline struct {
	ID             uuid.UUID  `json:"id"`
	ParticipantID  uuid.UUID  `json:"participant_id"`
	CampaignID     uuid.UUID  `json:"campaign_id"`
	CreatorUserID  uuid.UUID  `json:"creator_user_id"`
	Type           string     `json:"type"`
	Quantity       int        `json:"quantity"`
	Description    *string    `json:"description,omitempty"`
	DueAt          time.Time  `json:"due_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
