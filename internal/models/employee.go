package models

import "time"

// EmployeeStatus tracks where an employee sits in the JML lifecycle.
type EmployeeStatus string

const (
	EmployeeStatusJoining  EmployeeStatus = "joining"
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusMoving   EmployeeStatus = "moving"
	EmployeeStatusLeaving  EmployeeStatus = "leaving"
	EmployeeStatusDeparted EmployeeStatus = "departed"
)

// Employee represents a person moving through a JML lifecycle.
type Employee struct {
	ID           string         `db:"id" json:"id"`
	FullName     string         `db:"full_name" json:"full_name"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone"`
	JobTitle     string         `db:"job_title" json:"job_title"`
	DepartmentID *string        `db:"department_id" json:"department_id,omitempty"`
	ManagerID    *string        `db:"manager_id" json:"manager_id,omitempty"`
	Status       EmployeeStatus `db:"status" json:"status"`
	StartDate    *time.Time     `db:"start_date" json:"start_date,omitempty"`
	EndDate      *time.Time     `db:"end_date" json:"end_date,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter holds the equality predicates accepted by the list endpoint.
// Search is a separate operation and matches name/email/job title substrings.
type EmployeeFilter struct {
	Status       *EmployeeStatus
	DepartmentID string
}
