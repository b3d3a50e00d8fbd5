package models

import "time"

// WorkflowStatus is the lifecycle state of a running workflow.
type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "pending"
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
	WorkflowStatusBlocked    WorkflowStatus = "blocked"
	WorkflowStatusCancelled  WorkflowStatus = "cancelled"
)

// StepStatus is the state of a single workflow step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusBlocked    StepStatus = "blocked"
	StepStatusSkipped    StepStatus = "skipped"
)

// Workflow is a template instantiated for one employee. Progress is the
// rounded percentage of steps completed, maintained by the step-update path.
type Workflow struct {
	ID          string         `db:"id" json:"id"`
	TemplateID  *string        `db:"template_id" json:"template_id,omitempty"`
	EmployeeID  string         `db:"employee_id" json:"employee_id"`
	Name        string         `db:"name" json:"name"`
	Type        WorkflowType   `db:"type" json:"type"`
	Status      WorkflowStatus `db:"status" json:"status"`
	Progress    int            `db:"progress" json:"progress"`
	DueDate     *time.Time     `db:"due_date" json:"due_date,omitempty"`
	CompletedAt *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// WorkflowStep is a step cloned from a template at instantiation time.
type WorkflowStep struct {
	ID          string     `db:"id" json:"id"`
	WorkflowID  string     `db:"workflow_id" json:"workflow_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	OrderIndex  int        `db:"order_index" json:"order_index"`
	AssigneeID  *string    `db:"assignee_id" json:"assignee_id,omitempty"`
	Status      StepStatus `db:"status" json:"status"`
	StartedAt   *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// WorkflowDetail is the single-workflow response: workflow, its ordered
// steps, and the employee it belongs to.
type WorkflowDetail struct {
	Workflow
	Steps    []WorkflowStep `json:"steps"`
	Employee *Employee      `json:"employee,omitempty"`
}

// WorkflowFilter holds equality predicates for listing workflows.
type WorkflowFilter struct {
	Status     *WorkflowStatus
	Type       *WorkflowType
	EmployeeID string
}
