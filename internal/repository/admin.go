package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skillswap/internal/model"
)

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Stats computes the aggregate counts shown on the admin dashboard.
func (r *adminRepository) Stats(ctx context.Context) (*model.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM swap_requests WHERE status = 'accepted') AS active_swaps,
			(SELECT COUNT(*) FROM skills) AS total_skills,
			(SELECT COUNT(*) FROM users WHERE is_public = TRUE) AS public_users
	`

	var stats model.Stats
	err := r.db.QueryRowxContext(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveSwaps,
		&stats.TotalSkills,
		&stats.PublicUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}

func (r *adminRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	var users []model.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *adminRepository) ListSkills(ctx context.Context) ([]model.Skill, error) {
	query := `SELECT id, name, offered_by, wanted_by, availability FROM skills ORDER BY name`

	var skills []model.Skill
	err := r.db.SelectContext(ctx, &skills, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

func (r *adminRepository) ListSwaps(ctx context.Context) ([]model.SwapSummary, error) {
	query := `
		SELECT r.id, r.sender_id, r.receiver_id, r.message, r.status, r.feedback,
		       r.created_at, r.updated_at,
		       s.username AS sender_name, t.username AS receiver_name
		FROM swap_requests r
		JOIN users s ON s.id = r.sender_id
		JOIN users t ON t.id = r.receiver_id
		ORDER BY r.created_at DESC
	`

	var swaps []model.SwapSummary
	err := r.db.SelectContext(ctx, &swaps, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap requests: %w", err)
	}
	return swaps, nil
}

// SetAdmin flips is_admin for the user with the given email and writes the
// audit row inside the caller's transaction so the two cannot diverge.
func (r *adminRepository) SetAdmin(ctx context.Context, tx *sqlx.Tx, email string, isAdmin bool, operator string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE email = $1`,
		email, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to update is_admin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	action := model.AuditGrantAdmin
	if !isAdmin {
		action = model.AuditRevokeAdmin
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO admin_audit (operator, action, target_email) VALUES ($1, $2, $3)`,
		operator, action, email)
	if err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}

	return nil
}
