package repositories

import (
	"context"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
}

func NewReservationRepo(pool *pgxpool.Pool) *ReservationRepo {
	return &ReservationRepo{pool: pool}
}

func (r *ReservationRepo) Create(ctx context.Context, q Querier, res *models.BudgetReservation) error {
	return q.QueryRow(ctx, `
		INSERT INTO budget_reservations (campaign_id, invitation_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, res.CampaignID, res.InvitationID, res.Amount, res.Status).Scan(&res.ID, &res.CreatedAt)
}

// ReleaseForInvitation releases the held reservation tied to one
// invitation, when that invitation is withdrawn or declined.
func (r *ReservationRepo) ReleaseForInvitation(ctx context.Context, q Querier, invitationID uuid.UUID, reason string) error {
	_, err := q.Exec(ctx, `
		UPDATE budget_reservations
		SET status = 'released', released_at = now(), released_reason = $1
		WHERE invitation_id = $2 AND status = 'held'
	`, reason, invitationID)
	return err
}

// ReleaseAllForCampaign releases every held reservation of a campaign and
// returns how many were released. Used by campaign cancellation.
func (r *ReservationRepo) ReleaseAllForCampaign(ctx context.Context, q Querier, campaignID uuid.UUID, reason string) (int64, error) {
	tag, err := q.Exec(ctx, `
		UPDATE budget_reservations
		SET status = 'released', released_at = now(), released_reason = $1
		WHERE campaign_id = $2 AND status = 'held'
	`, reason, campaignID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.BudgetReservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, invitation_id, amount, status, released_at, released_reason, created_at
		FROM budget_reservations WHERE campaign_id = $1 ORDER BY created_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.BudgetReservation
	for rows.Next() {
		var res models.BudgetReservation
		if err := rows.Scan(&res.ID, &res.CampaignID, &res.InvitationID, &res.Amount,
			&res.Status, &res.ReleasedAt, &res.ReleasedReason, &res.CreatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}
