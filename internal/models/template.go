package models

import "time"

// WorkflowType categorises a template or workflow by JML transition.
type WorkflowType string

const (
	WorkflowTypeJoiner WorkflowType = "joiner"
	WorkflowTypeMover  WorkflowType = "mover"
	WorkflowTypeLeaver WorkflowType = "leaver"
)

// TemplateStatus is the publication state of a template.
type TemplateStatus string

const (
	TemplateStatusDraft    TemplateStatus = "draft"
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusArchived TemplateStatus = "archived"
)

// WorkflowTemplate is a reusable blueprint of ordered steps.
type WorkflowTemplate struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Type        WorkflowType   `db:"type" json:"type"`
	Status      TemplateStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// TemplateStep is one unit of work inside a template. OrderIndex fixes the
// position; reordering a template never touches already-instantiated
// workflows.
type TemplateStep struct {
	ID              string    `db:"id" json:"id"`
	TemplateID      string    `db:"template_id" json:"template_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	ResponsibleRole string    `db:"responsible_role" json:"responsible_role"`
	SLAHours        int       `db:"sla_hours" json:"sla_hours"`
	Required        bool      `db:"required" json:"required"`
	OrderIndex      int       `db:"order_index" json:"order_index"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TemplateDetail bundles a template with its ordered steps.
type TemplateDetail struct {
	WorkflowTemplate
	Steps []TemplateStep `json:"steps"`
}

// TemplateFilter holds equality predicates for listing templates.
type TemplateFilter struct {
	Type   *WorkflowType
	Status *TemplateStatus
}
