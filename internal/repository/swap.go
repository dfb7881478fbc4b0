package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"skillswap/internal/model"
)

type swapRepository struct {
	db *sqlx.DB
}

func NewSwapRepository(db *sqlx.DB) SwapRepository {
	return &swapRepository{db: db}
}

// Create inserts a pending request. The partial unique index on
// (sender_id, receiver_id) WHERE status = 'pending' makes the
// one-pending-pair invariant hold even under concurrent creates; on
// conflict no row is inserted and (false, nil) is returned.
func (r *swapRepository) Create(ctx context.Context, req *model.SwapRequest) (bool, error) {
	query := `
		INSERT INTO swap_requests (sender_id, receiver_id, message, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (sender_id, receiver_id) WHERE status = 'pending' DO NOTHING
		RETURNING id, status, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, req.SenderID, req.ReceiverID, req.Message).
		Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// conflict with an existing pending row
			return false, nil
		}
		return false, fmt.Errorf("failed to create swap request: %w", err)
	}
	return true, nil
}

func (r *swapRepository) GetByID(ctx context.Context, id int64) (*model.SwapRequest, error) {
	query := `
		SELECT id, sender_id, receiver_id, message, status, feedback, created_at, updated_at
		FROM swap_requests
		WHERE id = $1
	`
	var req model.SwapRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to get swap request: %w", err)
	}
	return &req, nil
}

// UpdateStatus performs a guarded transition: the UPDATE only matches while
// the row is still in the expected state, so two concurrent transitions
// cannot both succeed. Feedback is preserved unless a new value is given.
func (r *swapRepository) UpdateStatus(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error) {
	query := `
		UPDATE swap_requests
		SET status = $3, feedback = COALESCE($4, feedback), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, from, to, feedback)
	if err != nil {
		return false, fmt.Errorf("failed to transition swap request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// DeletePending removes a request only while it is still pending.
// Cancellation deletes the row outright; no cancelled status is retained.
func (r *swapRepository) DeletePending(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM swap_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete swap request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListBySender retrieves requests sent by the user, most-recent-first, with
// created_at cursor pagination: fetch limit+1 rows, and when more than limit
// come back, trim and use the last row's timestamp as the next cursor.
func (r *swapRepository) ListBySender(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
	return r.list(ctx, "sender_id", userID, cursor, limit)
}

// ListByReceiver retrieves requests addressed to the user, most-recent-first.
func (r *swapRepository) ListByReceiver(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
	return r.list(ctx, "receiver_id", userID, cursor, limit)
}

func (r *swapRepository) list(ctx context.Context, column string, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
	var query string
	var args []interface{}

	base := fmt.Sprintf(`
		SELECT r.id, r.sender_id, r.receiver_id, r.message, r.status, r.feedback,
		       r.created_at, r.updated_at,
		       s.username AS sender_name, t.username AS receiver_name
		FROM swap_requests r
		JOIN users s ON s.id = r.sender_id
		JOIN users t ON t.id = r.receiver_id
		WHERE r.%s = $1`, column)

	if cursor == nil {
		query = base + `
		ORDER BY r.created_at DESC
		LIMIT $2`
		args = []interface{}{userID, limit + 1}
	} else {
		query = base + ` AND r.created_at < $2
		ORDER BY r.created_at DESC
		LIMIT $3`
		args = []interface{}{userID, cursor, limit + 1}
	}

	var results []model.SwapSummary
	err := r.db.SelectContext(ctx, &results, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list swap requests: %w", err)
	}

	var nextCursor *time.Time
	if len(results) > limit {
		results = results[:limit]
		nextCursor = &results[len(results)-1].CreatedAt
	}

	return results, nextCursor, nil
}
