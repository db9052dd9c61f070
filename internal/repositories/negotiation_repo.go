package repositories

import (
	"context"
	"encoding/json"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const negotiationColumns = `id, invitation_id, proposed_by, proposed_payout, proposed_deliverables,
	       proposed_timeline_start, proposed_timeline_end, message, status, created_at, responded_at`

type NegotiationRepo struct {
	pool *pgxpool.Pool
}

func NewNegotiationRepo(pool *pgxpool.Pool) *NegotiationRepo {
	return &NegotiationRepo{pool: pool}
}

func scanNegotiation(row interface{ Scan(...any) error }, n *models.Negotiation) error {
	var deliverables []byte
	if err := row.Scan(&n.ID, &n.InvitationID, &n.ProposedBy, &n.ProposedPayout, &deliverables,
		&n.ProposedTimelineStart, &n.ProposedTimelineEnd, &n.Message, &n.Status,
		&n.CreatedAt, &n.RespondedAt); err != nil {
		return err
	}
	if len(deliverables) > 0 {
		_ = json.Unmarshal(deliverables, &n.ProposedDeliverables)
	}
	return nil
}

func (r *NegotiationRepo) Create(ctx context.Context, q Querier, n *models.Negotiation) error {
	var deliverables []byte
	if n.ProposedDeliverables != nil {
		deliverables, _ = json.Marshal(n.ProposedDeliverables)
	}
	return q.QueryRow(ctx, `
		INSERT INTO negotiations (invitation_id, proposed_by, proposed_payout, proposed_deliverables,
		                          proposed_timeline_start, proposed_timeline_end, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, n.InvitationID, n.ProposedBy, n.ProposedPayout, deliverables,
		n.ProposedTimelineStart, n.ProposedTimelineEnd, n.Message, n.Status,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NegotiationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Negotiation, error) {
	var n models.Negotiation
	err := scanNegotiation(r.pool.QueryRow(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = $1`, id), &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// LatestPending returns the newest pending negotiation for an invitation.
// That row, and only that row, may be responded to.
func (r *NegotiationRepo) LatestPending(ctx context.Context, invitationID uuid.UUID) (*models.Negotiation, error) {
	var n models.Negotiation
	err := scanNegotiation(r.pool.QueryRow(ctx, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE invitation_id = $1 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1
	`, invitationID), &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByInvitation returns the full negotiation history, newest first.
func (r *NegotiationRepo) ListByInvitation(ctx context.Context, invitationID uuid.UUID) ([]models.Negotiation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+negotiationColumns+` FROM negotiations
		WHERE invitation_id = $1 ORDER BY created_at DESC
	`, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var negotiations []models.Negotiation
	for rows.Next() {
		var n models.Negotiation
		if err := scanNegotiation(rows, &n); err != nil {
			return nil, err
		}
		negotiations = append(negotiations, n)
	}
	return negotiations, nil
}

func (r *NegotiationRepo) Resolve(ctx context.Context, q Querier, id uuid.UUID, status string) error {
	_, err := q.Exec(ctx, `
		UPDATE negotiations SET status = $1, responded_at = now() WHERE id = $2
	`, status, id)
	return err
}
