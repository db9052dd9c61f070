package services

import (
	"testing"
	"time"

	"github.com/creatorlink/backend/internal/models"
)

func TestShouldActivate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	campaign := func(status string) *models.Campaign {
		return &models.Campaign{Status: status, TimelineStart: start}
	}

	tests := []struct {
		name         string
		campaign     *models.Campaign
		now          time.Time
		participants int
		want         bool
	}{
		{"timeline started with a participant", campaign(models.CampaignStatusDiscovery), start.Add(time.Hour), 1, true},
		{"exactly at timeline start", campaign(models.CampaignStatusDiscovery), start, 1, true},
		{"before timeline start", campaign(models.CampaignStatusDiscovery), start.Add(-time.Hour), 3, false},
		{"no participants yet", campaign(models.CampaignStatusDiscovery), start.Add(time.Hour), 0, false},
		{"not in discovery", campaign(models.CampaignStatusActive), start.Add(time.Hour), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldActivate(tt.campaign, tt.now, tt.participants); got != tt.want {
				t.Errorf("ShouldActivate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldStartReview(t *testing.T) {
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   bool
	}{
		{"timeline ended", models.CampaignStatusActive, end.Add(time.Minute), true},
		{"exactly at timeline end", models.CampaignStatusActive, end, true},
		{"still running", models.CampaignStatusActive, end.Add(-time.Minute), false},
		{"not active", models.CampaignStatusDiscovery, end.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Campaign{Status: tt.status, TimelineEnd: end}
			if got := ShouldStartReview(c, tt.now); got != tt.want {
				t.Errorf("ShouldStartReview() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCancellationReleaseReason(t *testing.T) {
	// The reason is stored on every released reservation and read back
	// through the ledger endpoint, so the exact text matters.
	if models.ReleaseReasonCampaignCancelled != "Campaign cancelled" {
		t.Errorf("ReleaseReasonCampaignCancelled = %q, want %q",
			models.ReleaseReasonCampaignCancelled, "Campaign cancelled")
	}
}

func TestReviewOutcome(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	maxReviewing := 14 * 24 * time.Hour
	since := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}
	participants := func(statuses ...string) []models.Participant {
		out := make([]models.Participant, len(statuses))
		for i, s := range statuses {
			out[i] = models.Participant{Status: s}
		}
		return out
	}

	tests := []struct {
		name         string
		campaign     *models.Campaign
		participants []models.Participant
		wantComplete bool
		wantReason   string
	}{
		{
			"all participants completed",
			&models.Campaign{Status: models.CampaignStatusReviewing, ReviewingSince: since(time.Hour)},
			participants(models.ParticipantStatusCompleted, models.ParticipantStatusCompleted),
			true,
			"all participants completed",
		},
		{
			"one participant still active",
			&models.Campaign{Status: models.CampaignStatusReviewing, ReviewingSince: since(time.Hour)},
			participants(models.ParticipantStatusCompleted, models.ParticipantStatusActive),
			false,
			"",
		},
		{
			"no participants does not count as all done",
			&models.Campaign{Status: models.CampaignStatusReviewing, ReviewingSince: since(time.Hour)},
			nil,
			false,
			"",
		},
		{
			"review window expired",
			&models.Campaign{Status: models.CampaignStatusReviewing, ReviewingSince: since(15 * 24 * time.Hour)},
			participants(models.ParticipantStatusActive),
			true,
			"Auto-completed after 14 days",
		},
		{
			"review window expired with no participants",
			&models.Campaign{Status: models.CampaignStatusReviewing, ReviewingSince: since(maxReviewing)},
			nil,
			true,
			"Auto-completed after 14 days",
		},
		{
			"not reviewing",
			&models.Campaign{Status: models.CampaignStatusActive, ReviewingSince: since(30 * 24 * time.Hour)},
			nil,
			false,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, reason := ReviewOutcome(tt.campaign, tt.participants, now, maxReviewing)
			if complete != tt.wantComplete {
				t.Errorf("ReviewOutcome() complete = %v, want %v", complete, tt.wantComplete)
			}
			if reason != tt.wantReason {
				t.Errorf("ReviewOutcome() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}
