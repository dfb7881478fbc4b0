package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"skillswap/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	Browse(ctx context.Context, viewerID int64, filter model.BrowseFilter) ([]model.UserSummary, error)
	Search(ctx context.Context, viewerID int64, query string, limit int) ([]model.UserSummary, error)
}

type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id int64) (*model.Skill, error)
	Update(ctx context.Context, skill *model.Skill) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error)
	SearchByName(ctx context.Context, query string, limit int) ([]model.Skill, error)
}

type SwapRepository interface {
	// Create inserts a pending request. Returns false without error when a
	// pending row for the same (sender, receiver) pair already exists.
	Create(ctx context.Context, req *model.SwapRequest) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.SwapRequest, error)
	// UpdateStatus transitions the row only if it is still in the expected
	// state. Returns false when the guard did not match (lost race or stale
	// read). Feedback, when non-nil, is stored alongside the transition.
	UpdateStatus(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error)
	// DeletePending removes a still-pending row. Returns false when the row
	// is gone or no longer pending.
	DeletePending(ctx context.Context, id int64) (bool, error)
	ListBySender(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error)
	ListByReceiver(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, swapID *int64) error
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, int, error)
	MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type AdminRepository interface {
	Stats(ctx context.Context) (*model.Stats, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListSkills(ctx context.Context) ([]model.Skill, error)
	ListSwaps(ctx context.Context) ([]model.SwapSummary, error)
	// SetAdmin flips is_admin for the user with the given email and records
	// the change in admin_audit within the same transaction.
	SetAdmin(ctx context.Context, tx *sqlx.Tx, email string, isAdmin bool, operator string) error
}
