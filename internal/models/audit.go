package models

import "time"

// AuditAction constants represent mutations to be logged.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionSeed   = "SEED"
)

// AuditLog represents an activity-history record.
type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"user_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	Resource    string    `db:"resource" json:"resource"`
	ResourceID  *string   `db:"resource_id" json:"resource_id,omitempty"`
	Description string    `db:"description" json:"description"`
	IPAddress   string    `db:"ip_address" json:"ip_address"`
	UserAgent   string    `db:"user_agent" json:"user_agent"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AuditLogFilter holds equality predicates for the activity log view.
type AuditLogFilter struct {
	Resource string
	Action   string
	UserID   string
}

// RequestMeta carries caller attribution captured by handlers for audit rows.
type RequestMeta struct {
	ActorID   *string
	IP        string
	UserAgent string
}
