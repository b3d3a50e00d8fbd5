package dto

// StatusCount pairs one status value with its row count.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// DashboardStats is the aggregate-counter payload behind the UI landing page.
type DashboardStats struct {
	TotalEmployees    int           `json:"total_employees"`
	ActiveWorkflows   int           `json:"active_workflows"`
	PendingTasks      int           `json:"pending_tasks"`
	EmployeesByStatus []StatusCount `json:"employees_by_status"`
	WorkflowsByStatus []StatusCount `json:"workflows_by_status"`
}
