package model

import "time"

// Stats is the read-only aggregate view served to admins.
type Stats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveSwaps int64 `json:"active_swaps"` // requests with status = accepted
	TotalSkills int64 `json:"total_skills"`
	PublicUsers int64 `json:"public_users"`
}

// AdminAudit records a provisioning action performed through the CLI.
// Every is_admin change writes one of these in the same transaction.
type AdminAudit struct {
	ID          int64     `db:"id" json:"id"`
	Operator    string    `db:"operator" json:"operator"`
	Action      string    `db:"action" json:"action"`
	TargetEmail string    `db:"target_email" json:"target_email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Audit actions
const (
	AuditGrantAdmin  = "grant_admin"
	AuditRevokeAdmin = "revoke_admin"
)
