package models

import "testing"

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{CampaignStatusDraft, CampaignStatusDiscovery, true},
		{CampaignStatusDiscovery, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusReviewing, true},
		{CampaignStatusReviewing, CampaignStatusCompleted, true},

		// Cancellation from any non-terminal state
		{CampaignStatusDraft, CampaignStatusCancelled, true},
		{CampaignStatusDiscovery, CampaignStatusCancelled, true},
		{CampaignStatusActive, CampaignStatusCancelled, true},
		{CampaignStatusReviewing, CampaignStatusCancelled, true},

		// No skipping stages
		{CampaignStatusDraft, CampaignStatusActive, false},
		{CampaignStatusDiscovery, CampaignStatusReviewing, false},
		{CampaignStatusActive, CampaignStatusCompleted, false},

		// No going back
		{CampaignStatusActive, CampaignStatusDiscovery, false},
		{CampaignStatusReviewing, CampaignStatusActive, false},

		// Terminal states
		{CampaignStatusCompleted, CampaignStatusCancelled, false},
		{CampaignStatusCancelled, CampaignStatusDiscovery, false},

		{"nonexistent", CampaignStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllCampaignStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		CampaignStatusDraft, CampaignStatusDiscovery, CampaignStatusActive,
		CampaignStatusReviewing, CampaignStatusCompleted, CampaignStatusCancelled,
	}

	for _, status := range allStatuses {
		if _, ok := ValidCampaignTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidCampaignTransitions map", status)
		}
	}
}

func TestTerminalCampaignStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{CampaignStatusCompleted, CampaignStatusCancelled}
	for _, status := range terminal {
		transitions := ValidCampaignTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}
