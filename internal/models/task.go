package models

import "time"

// TaskStatus is the state of a granular work item.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority orders tasks for the pending queue view.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task is a granular work item, optionally attached to a workflow step.
type Task struct {
	ID             string       `db:"id" json:"id"`
	WorkflowStepID *string      `db:"workflow_step_id" json:"workflow_step_id,omitempty"`
	Title          string       `db:"title" json:"title"`
	Description    string       `db:"description" json:"description"`
	Status         TaskStatus   `db:"status" json:"status"`
	Priority       TaskPriority `db:"priority" json:"priority"`
	AssigneeID     *string      `db:"assignee_id" json:"assignee_id,omitempty"`
	DueDate        *time.Time   `db:"due_date" json:"due_date,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// TaskFilter holds equality predicates for listing tasks.
type TaskFilter struct {
	Status         *TaskStatus
	AssigneeID     string
	WorkflowStepID string
}
