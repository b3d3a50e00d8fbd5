package dto

// TypeCount pairs one workflow type with its row count.
type TypeCount struct {
	Type  string `db:"type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// WorkflowReport summarises workflow volume for the reports view.
type WorkflowReport struct {
	Total             int           `json:"total"`
	Completed         int           `json:"completed"`
	ByStatus          []StatusCount `json:"by_status"`
	ByType            []TypeCount   `json:"by_type"`
	AvgCompletionDays float64       `json:"avg_completion_days"`
}
