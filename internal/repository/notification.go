package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"skillswap/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, userID, actorID int64, notifType string, swapID *int64) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, swap_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, userID, actorID, notifType, swapID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the most recent notifications for a user with actor info
// joined in, plus the unread count computed from the fetched rows.
func (r *notificationRepository) List(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error) {
	query := `
		SELECT n.id, n.user_id, n.actor_id, n.type, n.swap_id, n.is_read, n.created_at,
		       u.id AS "actor.id", u.username AS "actor.username",
		       u.location AS "actor.location", u.photo_url AS "actor.photo_url"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
	`

	type notifRow struct {
		ID            int64     `db:"id"`
		UserID        int64     `db:"user_id"`
		ActorID       int64     `db:"actor_id"`
		Type          string    `db:"type"`
		SwapID        *int64    `db:"swap_id"`
		IsRead        bool      `db:"is_read"`
		CreatedAt     time.Time `db:"created_at"`
		ActorIDJoined int64     `db:"actor.id"`
		ActorUsername string    `db:"actor.username"`
		ActorLocation *string   `db:"actor.location"`
		ActorPhotoURL *string   `db:"actor.photo_url"`
	}

	var rows []notifRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	unread := 0
	for i, row := range rows {
		notifications[i] = model.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			ActorID:   row.ActorID,
			Type:      row.Type,
			SwapID:    row.SwapID,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
			Actor: &model.UserSummary{
				ID:       row.ActorIDJoined,
				Username: row.ActorUsername,
				Location: row.ActorLocation,
				PhotoURL: row.ActorPhotoURL,
			},
		}
		if !row.IsRead {
			unread++
		}
	}

	return notifications, unread, nil
}

// MarkAsRead marks specific notifications as read, scoped to the recipient.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND id = ANY($2)
	`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(notificationIDs))
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks every notification for a user as read.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
