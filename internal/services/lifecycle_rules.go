package services

import (
	"fmt"
	"time"

	"github.com/creatorlink/backend/internal/models"
)

// Pure lifecycle rules, separated from the sweep so they can be tested
// without a database.

// ShouldActivate reports whether a discovery campaign is ready to go
// active: the timeline has started and at least one creator has joined.
func ShouldActivate(c *models.Campaign, now time.Time, activeParticipants int) bool {
	if c.Status != models.CampaignStatusDiscovery {
		return false
	}
	return !now.Before(c.TimelineStart) && activeParticipants > 0
}

// ShouldStartReview reports whether an active campaign's timeline has
// ended, moving it into the review window.
func ShouldStartReview(c *models.Campaign, now time.Time) bool {
	if c.Status != models.CampaignStatusActive {
		return false
	}
	return !now.Before(c.TimelineEnd)
}

// ReviewOutcome decides whether a reviewing campaign completes, and why.
// Completion happens when every participant is done, or when the review
// window has been open longer than maxReviewing.
func ReviewOutcome(c *models.Campaign, participants []models.Participant, now time.Time, maxReviewing time.Duration) (complete bool, reason string) {
	if c.Status != models.CampaignStatusReviewing {
		return false, ""
	}
	if len(participants) > 0 {
		allDone := true
		for _, p := range participants {
			if p.Status != models.ParticipantStatusCompleted {
				allDone = false
				break
			}
		}
		if allDone {
			return true, "all participants completed"
		}
	}
	if c.ReviewingSince != nil && now.Sub(*c.ReviewingSince) >= maxReviewing {
		return true, fmt.Sprintf("Auto-completed after %d days", int(maxReviewing.Hours()/24))
	}
	return false, ""
}
