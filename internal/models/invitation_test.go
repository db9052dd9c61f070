package models

import "testing"

func TestIsValidInvitationTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{InvitationStatusPending, InvitationStatusNegotiating, true},
		{InvitationStatusPending, InvitationStatusAccepted, true},
		{InvitationStatusPending, InvitationStatusDeclined, true},
		{InvitationStatusPending, InvitationStatusWithdrawn, true},
		{InvitationStatusNegotiating, InvitationStatusAccepted, true},
		{InvitationStatusNegotiating, InvitationStatusDeclined, true},

		// Withdraw is only possible before negotiation starts
		{InvitationStatusNegotiating, InvitationStatusWithdrawn, false},

		// Terminal states stay terminal
		{InvitationStatusAccepted, InvitationStatusDeclined, false},
		{InvitationStatusAccepted, InvitationStatusPending, false},
		{InvitationStatusDeclined, InvitationStatusAccepted, false},
		{InvitationStatusWithdrawn, InvitationStatusPending, false},

		// No re-entering pending
		{InvitationStatusNegotiating, InvitationStatusPending, false},

		{"nonexistent", InvitationStatusAccepted, false},
		{InvitationStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidInvitationTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidInvitationTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestInvitationAllocates(t *testing.T) {
	allocating := []string{InvitationStatusPending, InvitationStatusNegotiating, InvitationStatusAccepted}
	for _, status := range allocating {
		if !InvitationAllocates(status) {
			t.Errorf("InvitationAllocates(%q) = false, want true", status)
		}
	}

	released := []string{InvitationStatusDeclined, InvitationStatusWithdrawn, "bogus"}
	for _, status := range released {
		if InvitationAllocates(status) {
			t.Errorf("InvitationAllocates(%q) = true, want false", status)
		}
	}
}

func TestCommittedAmount(t *testing.T) {
	delta := int64(2500)
	tests := []struct {
		name     string
		inv      Invitation
		expected int64
	}{
		{"no delta", Invitation{OfferedPayout: 100000}, 100000},
		{"with delta", Invitation{OfferedPayout: 100000, NegotiatedDelta: &delta}, 102500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.CommittedAmount(); got != tt.expected {
				t.Errorf("CommittedAmount() = %d, want %d", got, tt.expected)
			}
		})
	}
}
