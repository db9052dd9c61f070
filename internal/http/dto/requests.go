package dto

import "time"

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"` // brand / creator
	SocialHandle string `json:"social_handle,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Campaigns

type CampaignRequest struct {
	Title                   string    `json:"title"`
	Brief                   string    `json:"brief,omitempty"`
	TotalBudget             int64     `json:"total_budget"`
	InfluencerCount         int       `json:"influencer_count"`
	BasePayoutPerInfluencer int64     `json:"base_payout_per_influencer"`
	TimelineStart           time.Time `json:"timeline_start"`
	TimelineEnd             time.Time `json:"timeline_end"`
}

type CancelCampaignRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Invitations

type DeliverableRequest struct {
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

type CreateInvitationRequest struct {
	CampaignID          string               `json:"campaign_id"`
	CreatorUserID       string               `json:"creator_user_id"`
	OfferedPayout       int64                `json:"offered_payout"`
	Deliverables        []DeliverableRequest `json:"deliverables,omitempty"`
	TimelineStart       *time.Time           `json:"timeline_start,omitempty"`
	TimelineEnd         *time.Time           `json:"timeline_end,omitempty"`
	SpecialRequirements *string              `json:"special_requirements,omitempty"`
}

type UpdatePayoutRequest struct {
	OfferedPayout int64 `json:"offered_payout"`
}

type DeclineInvitationRequest struct {
	Redistribute bool `json:"redistribute"`
}

type BudgetImpactRequest struct {
	ProposedPayout int64 `json:"proposed_payout"`
}

// Negotiations

type CounterOfferRequest struct {
	ProposedPayout        *int64               `json:"proposed_payout,omitempty"`
	ProposedDeliverables  []DeliverableRequest `json:"proposed_deliverables,omitempty"`
	ProposedTimelineStart *time.Time           `json:"proposed_timeline_start,omitempty"`
	ProposedTimelineEnd   *time.Time           `json:"proposed_timeline_end,omitempty"`
	Message               string               `json:"message,omitempty"`
}

type RespondNegotiationRequest struct {
	Response string               `json:"response"` // accepted / rejected / countered
	Counter  *CounterOfferRequest `json:"counter,omitempty"`
}

// Deliverable deadlines

type ScheduleDeliverableRequest struct {
	ParticipantID string    `json:"participant_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Description   string    `json:"description,omitempty"`
	DueAt         time.Time `json:"due_at"`
}
