package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invitationColumns = `id, campaign_id, creator_user_id, base_payout, offered_payout, negotiated_delta,
	       deliverables, timeline_start, timeline_end, special_requirements, status, created_at, updated_at`

type InvitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepo(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

func scanInvitation(row interface{ Scan(...any) error }, i *models.Invitation) error {
	var deliverables []byte
	if err := row.Scan(&i.ID, &i.CampaignID, &i.CreatorUserID, &i.BasePayout, &i.OfferedPayout,
		&i.NegotiatedDelta, &deliverables, &i.TimelineStart, &i.TimelineEnd,
		&i.SpecialRequirements, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return err
	}
	if len(deliverables) > 0 {
		_ = json.Unmarshal(deliverables, &i.Deliverables)
	}
	return nil
}

// Create inserts an invitation through the caller's transaction, so the row
// and the campaign allocation update commit or roll back together.
func (r *InvitationRepo) Create(ctx context.Context, q Querier, i *models.Invitation) error {
	deliverables, _ := json.Marshal(i.Deliverables)
	return q.QueryRow(ctx, `
		INSERT INTO invitations (campaign_id, creator_user_id, base_payout, offered_payout,
		                         deliverables, timeline_start, timeline_end, special_requirements, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, i.CampaignID, i.CreatorUserID, i.BasePayout, i.OfferedPayout,
		deliverables, i.TimelineStart, i.TimelineEnd, i.SpecialRequirements, i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

func (r *InvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var i models.Invitation
	err := scanInvitation(r.pool.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id), &i)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ExistsForPair reports whether any invitation, in any status, already
// exists for the (campaign, creator) pair.
func (r *InvitationRepo) ExistsForPair(ctx context.Context, campaignID, creatorUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM invitations WHERE campaign_id = $1 AND creator_user_id = $2)
	`, campaignID, creatorUserID).Scan(&exists)
	return exists, err
}

func (r *InvitationRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations WHERE campaign_id = $1 ORDER BY created_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var i models.Invitation
		if err := scanInvitation(rows, &i); err != nil {
			return nil, err
		}
		invitations = append(invitations, i)
	}
	return invitations, nil
}

type InvitationFilter struct {
	CampaignID    *uuid.UUID
	CreatorUserID *uuid.UUID
	Status        *string
	Limit         int
	Offset        int
}

func (r *InvitationRepo) ListWithCampaign(ctx context.Context, f InvitationFilter) ([]models.InvitationWithCampaign, error) {
	query := `
		SELECT i.id, i.campaign_id, i.creator_user_id, i.base_payout, i.offered_payout, i.negotiated_delta,
		       i.deliverables, i.timeline_start, i.timeline_end, i.special_requirements, i.status,
		       i.created_at, i.updated_at, c.title, c.status
		FROM invitations i
		JOIN campaigns c ON c.id = i.campaign_id
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("i.campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.CreatorUserID != nil {
		where = append(where, fmt.Sprintf("i.creator_user_id = $%d", argIdx))
		args = append(args, *f.CreatorUserID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("i.status = $%d", argIdx))
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
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.InvitationWithCampaign
	for rows.Next() {
		var iv models.InvitationWithCampaign
		var deliverables []byte
		if err := rows.Scan(&iv.ID, &iv.CampaignID, &iv.CreatorUserID, &iv.BasePayout, &iv.OfferedPayout,
			&iv.NegotiatedDelta, &deliverables, &iv.TimelineStart, &iv.TimelineEnd,
			&iv.SpecialRequirements, &iv.Status, &iv.CreatedAt, &iv.UpdatedAt,
			&iv.CampaignTitle, &iv.CampaignStatus); err != nil {
			return nil, err
		}
		if len(deliverables) > 0 {
			_ = json.Unmarshal(deliverables, &iv.Deliverables)
		}
		invitations = append(invitations, iv)
	}
	return invitations, nil
}

func (r *InvitationRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	_, err := q.Exec(ctx, `UPDATE invitations SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *InvitationRepo) UpdatePayout(ctx context.Context, q Querier, id uuid.UUID, payout int64) error {
	_, err := q.Exec(ctx, `UPDATE invitations SET offered_payout = $1, updated_at = now() WHERE id = $2`, payout, id)
	return err
}

// AddPayoutBonus spreads a per-invitation bonus over the given invitations,
// used when freed budget is redistributed after a decline.
func (r *InvitationRepo) AddPayoutBonus(ctx context.Context, q Querier, ids []uuid.UUID, bonus int64) error {
	_, err := q.Exec(ctx, `
		UPDATE invitations SET offered_payout = offered_payout + $1, updated_at = now() WHERE id = ANY($2)
	`, bonus, ids)
	return err
}
