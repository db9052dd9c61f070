package events

import "context"

// Pub/sub channels
const (
	ChannelInvitation  = "invitations"
	ChannelCampaign    = "campaigns"
	ChannelNegotiation = "negotiations"
	ChannelDeadline    = "deadlines"
)

// Event types
const (
	EventInvitationCreated       = "invitation_created"
	EventInvitationStatusChanged = "invitation_status_changed"
	EventCampaignStatusChanged   = "campaign_status_changed"
	EventNegotiationSubmitted    = "negotiation_submitted"
	EventNegotiationResolved     = "negotiation_resolved"
	EventDeadlineApproaching     = "deadline_approaching"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}
