package models

import "time"

// UserRole represents the available roles. No endpoint enforces them yet;
// they exist for client-side gating and audit attribution.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleHRManager UserRole = "HR_MANAGER"
	RoleITSupport UserRole = "IT_SUPPORT"
	RoleManager   UserRole = "MANAGER"
	RoleEmployee  UserRole = "EMPLOYEE"
)

// User represents an application user stored in the users table.
// PasswordHash is excluded from every response shape.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   *UserRole
	Active *bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
