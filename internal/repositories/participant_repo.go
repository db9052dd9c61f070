package repositories

import (
	"context"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepo struct {
	pool *pgxpool.Pool
}

func NewParticipantRepo(pool *pgxpool.Pool) *ParticipantRepo {
	return &ParticipantRepo{pool: pool}
}

func (r *ParticipantRepo) Create(ctx context.Context, q Querier, p *models.Participant) error {
	return q.QueryRow(ctx, `
		INSERT INTO campaign_participants (campaign_id, invitation_id, creator_user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at
	`, p.CampaignID, p.InvitationID, p.CreatorUserID, p.Status).Scan(&p.ID, &p.JoinedAt)
}

func (r *ParticipantRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, invitation_id, creator_user_id, status, joined_at, completed_at
		FROM campaign_participants WHERE campaign_id = $1 ORDER BY joined_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.InvitationID, &p.CreatorUserID,
			&p.Status, &p.JoinedAt, &p.CompletedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func (r *ParticipantRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaign_participants SET status = 'completed', completed_at = now()
		WHERE id = $1 AND status = 'active'
	`, id)
	return err
}

func (r *ParticipantRepo) GetByCampaignAndCreator(ctx context.Context, campaignID, creatorUserID uuid.UUID) (*models.Participant, error) {
	var p models.Participant
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, invitation_id, creator_user_id, status, joined_at, completed_at
		FROM campaign_participants WHERE campaign_id = $1 AND creator_user_id = $2
	`, campaignID, creatorUserID).Scan(&p.ID, &p.CampaignID, &p.InvitationID, &p.CreatorUserID,
		&p.Status, &p.JoinedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
