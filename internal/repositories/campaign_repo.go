package repositories

import (
	"context"
	"fmt"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignColumns = `id, brand_user_id, title, brief, total_budget, allocated_budget, remaining_budget,
	       influencer_count, base_payout_per_influencer, timeline_start, timeline_end,
	       status, reviewing_since, created_at, updated_at`

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.BrandUserID, &c.Title, &c.Brief, &c.TotalBudget, &c.AllocatedBudget,
		&c.RemainingBudget, &c.InfluencerCount, &c.BasePayoutPerInfluencer,
		&c.TimelineStart, &c.TimelineEnd, &c.Status, &c.ReviewingSince,
		&c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_user_id, title, brief, total_budget, allocated_budget, remaining_budget,
		                       influencer_count, base_payout_per_influencer, timeline_start, timeline_end, status)
		VALUES ($1, $2, $3, $4, 0, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, c.BrandUserID, c.Title, c.Brief, c.TotalBudget,
		c.InfluencerCount, c.BasePayoutPerInfluencer, c.TimelineStart, c.TimelineEnd, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id), &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AllocateWithinBudget atomically adds delta to allocated_budget, but only
// if the result stays within total_budget. The check and the write are a
// single statement so concurrent invitations cannot both pass a stale
// capacity check. Returns false when the ceiling would be exceeded.
func (r *CampaignRepo) AllocateWithinBudget(ctx context.Context, q Querier, id uuid.UUID, delta int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE campaigns
		SET allocated_budget = allocated_budget + $1,
		    remaining_budget = total_budget - (allocated_budget + $1),
		    updated_at = now()
		WHERE id = $2 AND allocated_budget + $1 <= total_budget
	`, delta, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// FreeAllocation subtracts amount from allocated_budget, flooring at zero
// so a decline or withdrawal can never drive the aggregate negative.
func (r *CampaignRepo) FreeAllocation(ctx context.Context, q Querier, id uuid.UUID, amount int64) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns
		SET allocated_budget = GREATEST(allocated_budget - $1, 0),
		    remaining_budget = total_budget - GREATEST(allocated_budget - $1, 0),
		    updated_at = now()
		WHERE id = $2
	`, amount, id)
	return err
}

// SetBudgetState writes a freshly recomputed allocation aggregate, used by
// the decline/redistribution path.
func (r *CampaignRepo) SetBudgetState(ctx context.Context, q Querier, id uuid.UUID, allocated, remaining, basePayout int64) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns
		SET allocated_budget = $1, remaining_budget = $2, base_payout_per_influencer = $3, updated_at = now()
		WHERE id = $4
	`, allocated, remaining, basePayout, id)
	return err
}

// UpdateStatus moves a campaign to a new status, guarded by the expected
// current status so sweeps stay idempotent under concurrency. Entering
// reviewing stamps reviewing_since.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, from, to string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE campaigns
		SET status = $1,
		    reviewing_since = CASE WHEN $1 = 'reviewing' THEN now() ELSE reviewing_since END,
		    updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET title = $1, brief = $2, total_budget = $3, remaining_budget = $3 - allocated_budget,
		       influencer_count = $4, base_payout_per_influencer = $5, timeline_start = $6, timeline_end = $7,
		       updated_at = now()
		WHERE id = $8
	`, c.Title, c.Brief, c.TotalBudget, c.InfluencerCount,
		c.BasePayoutPerInfluencer, c.TimelineStart, c.TimelineEnd, c.ID)
	return err
}

type CampaignFilter struct {
	BrandUserID *uuid.UUID
	Status      *string
	Limit       int
	Offset      int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandUserID != nil {
		where = append(where, fmt.Sprintf("brand_user_id = $%d", argIdx))
		args = append(args, *f.BrandUserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// ListSweepable returns campaigns in the statuses the lifecycle sweep cares
// about (discovery, active, reviewing).
func (r *CampaignRepo) ListSweepable(ctx context.Context) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status IN ('discovery', 'active', 'reviewing')
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}
