package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusDiscovery = "discovery"
	CampaignStatusActive    = "active"
	CampaignStatusReviewing = "reviewing"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// Valid campaign state transitions: from -> []to
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusDiscovery, CampaignStatusCancelled},
	CampaignStatusDiscovery: {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusActive:    {CampaignStatusReviewing, CampaignStatusCancelled},
	CampaignStatusReviewing: {CampaignStatusCompleted, CampaignStatusCancelled},
	CampaignStatusCompleted: {},
	CampaignStatusCancelled: {},
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
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

// Campaign is a brand-funded initiative with a fixed total budget and a
// target creator count. All money fields are cents.
//
// AllocatedBudget is a persisted aggregate: the sum of
// offered_payout + negotiated_delta over invitations whose status is
// pending, negotiating or accepted.
type Campaign struct {
	ID                      uuid.UUID  `json:"id"`
	BrandUserID             uuid.UUID  `json:"brand_user_id"`
	Title                   string     `json:"title"`
	Brief                   string     `json:"brief"`
	TotalBudget             int64      `json:"total_budget"`
	AllocatedBudget         int64      `json:"allocated_budget"`
	RemainingBudget         int64      `json:"remaining_budget"`
	InfluencerCount         int        `json:"influencer_count"`
	BasePayoutPerInfluencer int64      `json:"base_payout_per_influencer"`
	TimelineStart           time.Time  `json:"timeline_start"`
	TimelineEnd             time.Time  `json:"timeline_end"`
	Status                  string     `json:"status"`
	ReviewingSince          *time.Time `json:"reviewing_since,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// Participant statuses
const (
	ParticipantStatusActive    = "active"
	ParticipantStatusCompleted = "completed"
)

// Participant is a creator who accepted an invitation and is working on the
// campaign. Lifecycle sweeps only read aggregate participant state.
type Participant struct {
	ID            uuid.UUID  `json:"id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	InvitationID  uuid.UUID  `json:"invitation_id"`
	CreatorUserID uuid.UUID  `json:"creator_user_id"`
	Status        string     `json:"status"`
	JoinedAt      time.Time  `json:"joined_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Snapshot kinds
const (
	SnapshotKindCompletion   = "completion"
	SnapshotKindCancellation = "cancellation"
)

// CampaignSnapshot archives the full campaign record at completion or
// cancellation time.
type CampaignSnapshot struct {
	ID         uuid.UUID `json:"id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Kind       string    `json:"kind"`
	Data       any       `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}
