package repositories

import (
	"context"
	"encoding/json"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SnapshotRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Archive stores a full copy of the campaign record at a lifecycle boundary.
func (r *SnapshotRepo) Archive(ctx context.Context, q Querier, campaign *models.Campaign, kind string) error {
	data, err := json.Marshal(campaign)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO campaign_snapshots (campaign_id, kind, data) VALUES ($1, $2, $3)
	`, campaign.ID, kind, data)
	return err
}

func (r *SnapshotRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.CampaignSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, kind, data, created_at
		FROM campaign_snapshots WHERE campaign_id = $1 ORDER BY created_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.CampaignSnapshot
	for rows.Next() {
		var s models.CampaignSnapshot
		if err := rows.Scan(&s.ID, &s.CampaignID, &s.Kind, &s.Data, &s.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
