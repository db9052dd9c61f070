package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotifierClient pushes user-facing notifications to the notifier service.
// Delivery is best effort: failures are logged and never bubble into the
// business flow that triggered them.
type NotifierClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewNotifierClient(baseURL string, log *zap.Logger) *NotifierClient {
	return &NotifierClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

type Notification struct {
	UserID    uuid.UUID      `json:"user_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	ActionURL string         `json:"action_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (c *NotifierClient) Send(ctx context.Context, n Notification) {
	if c.baseURL == "" {
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		c.log.Warn("notification marshal failed", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(body))
	if err != nil {
		c.log.Warn("notification request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("notification delivery failed",
			zap.String("type", n.Type), zap.String("user_id", n.UserID.String()), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		c.log.Warn("notifier rejected notification",
			zap.String("type", n.Type), zap.Int("status", resp.StatusCode))
	}
}

func (c *NotifierClient) SendDeadlineReminder(ctx context.Context, userID uuid.UUID, campaignTitle, deliverableType string, dueAt time.Time) {
	c.Send(ctx, Notification{
		UserID:  userID,
		Type:    "deadline_reminder",
		Title:   "Deliverable due soon",
		Message: fmt.Sprintf("Your %s for %q is due %s", deliverableType, campaignTitle, dueAt.Format("Jan 2 15:04 MST")),
		Metadata: map[string]any{
			"deliverable_type": deliverableType,
			"due_at":           dueAt.Format(time.RFC3339),
		},
	})
}
