package repositories

import (
	"context"
	"time"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deliverableColumns = `id, participant_id, campaign_id, creator_user_id, type, quantity, description,
	       due_at, submitted_at, reminder_sent_at, created_at`

type DeliverableRepo struct {
	pool *pgxpool.Pool
}

func NewDeliverableRepo(pool *pgxpool.Pool) *DeliverableRepo {
	return &DeliverableRepo{pool: pool}
}

func (r *DeliverableRepo) Create(ctx context.Context, d *models.DeliverableDeadline) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO deliverable_deadlines (participant_id, campaign_id, creator_user_id, type, quantity, description, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, d.ParticipantID, d.CampaignID, d.CreatorUserID, d.Type, d.Quantity, d.Description, d.DueAt,
	).Scan(&d.ID, &d.CreatedAt)
}

// ListDueUnreminded returns deliverables due before the cutoff with no
// submission and no reminder sent yet. The reminder sweep marks each row it
// notifies, so re-running the sweep sends nothing twice.
func (r *DeliverableRepo) ListDueUnreminded(ctx context.Context, cutoff time.Time) ([]models.DeliverableDeadline, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deliverableColumns+` FROM deliverable_deadlines
		WHERE due_at <= $1 AND due_at > now() AND submitted_at IS NULL AND reminder_sent_at IS NULL
		ORDER BY due_at
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []models.DeliverableDeadline
	for rows.Next() {
		var d models.DeliverableDeadline
		if err := rows.Scan(&d.ID, &d.ParticipantID, &d.CampaignID, &d.CreatorUserID,
			&d.Type, &d.Quantity, &d.Description, &d.DueAt,
			&d.SubmittedAt, &d.ReminderSentAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, nil
}

func (r *DeliverableRepo) MarkReminded(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE deliverable_deadlines SET reminder_sent_at = now() WHERE id = $1 AND reminder_sent_at IS NULL
	`, id)
	return err
}

func (r *DeliverableRepo) MarkSubmitted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE deliverable_deadlines SET submitted_at = now() WHERE id = $1 AND submitted_at IS NULL
	`, id)
	return err
}

func (r *DeliverableRepo) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.DeliverableDeadline, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deliverableColumns+` FROM deliverable_deadlines
		WHERE participant_id = $1 ORDER BY due_at
	`, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []models.DeliverableDeadline
	for rows.Next() {
		var d models.DeliverableDeadline
		if err := rows.Scan(&d.ID, &d.ParticipantID, &d.CampaignID, &d.CreatorUserID,
			&d.Type, &d.Quantity, &d.Description, &d.DueAt,
			&d.SubmittedAt, &d.ReminderSentAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, nil
}
