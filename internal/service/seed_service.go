package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

// SeedSummary reports how many rows each seed pass inserted.
type SeedSummary struct {
	Users       int `json:"users"`
	Departments int `json:"departments"`
	Employees   int `json:"employees"`
	Templates   int `json:"templates"`
	Workflows   int `json:"workflows"`
	Tasks       int `json:"tasks"`
}

// SeedService inserts a fixed demonstration dataset. Repeated calls insert
// the same rows again with fresh identifiers; there is no deduplication.
type SeedService struct {
	users         userRepository
	departments   departmentRepository
	employees     employeeRepository
	templates     templateRepository
	workflows     workflowRepository
	tasks         taskRepository
	notifications notificationRepository
	audit         auditRecorder
	stats         statsInvalidator
	logger        *zap.Logger
}

// NewSeedService constructs SeedService.
func NewSeedService(users userRepository, departments departmentRepository, employees employeeRepository, templates templateRepository, workflows workflowRepository, tasks taskRepository, notifications notificationRepository, audit auditRecorder, stats statsInvalidator, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		users:         users,
		departments:   departments,
		employees:     employees,
		templates:     templates,
		workflows:     workflows,
		tasks:         tasks,
		notifications: notifications,
		audit:         audit,
		stats:         stats,
		logger:        logger,
	}
}

// Run populates representative rows across every entity.
func (s *SeedService) Run(ctx context.Context, meta models.RequestMeta) (*SeedSummary, error) {
	summary := &SeedSummary{}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash seed password")
	}

	users := []models.User{
		{Email: "admin@jmlhub.local", FullName: "Ade Nugroho", Role: models.RoleAdmin, Active: true},
		{Email: "hr@jmlhub.local", FullName: "Siti Rahma", Role: models.RoleHRManager, Active: true},
		{Email: "it@jmlhub.local", FullName: "Bima Putra", Role: models.RoleITSupport, Active: true},
		{Email: "manager@jmlhub.local", FullName: "Dewi Lestari", Role: models.RoleManager, Active: true},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		if err := s.users.Create(ctx, &users[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed users")
		}
		summary.Users++
	}

	departments := []models.Department{
		{Name: "Engineering", Description: "Product engineering"},
		{Name: "People Operations", Description: "HR and recruiting"},
		{Name: "IT Operations", Description: "Internal IT and access management"},
	}
	for i := range departments {
		if err := s.departments.Create(ctx, &departments[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed departments")
		}
		summary.Departments++
	}

	now := time.Now().UTC()
	nextWeek := now.AddDate(0, 0, 7)
	lastMonth := now.AddDate(0, -1, 0)

	employees := []models.Employee{
		{FullName: "Rani Kusuma", Email: "rani.kusuma@corp.example", JobTitle: "Backend Engineer", DepartmentID: &departments[0].ID, Status: models.EmployeeStatusJoining, StartDate: &nextWeek},
		{FullName: "Joko Santoso", Email: "joko.santoso@corp.example", JobTitle: "HR Generalist", DepartmentID: &departments[1].ID, Status: models.EmployeeStatusActive, StartDate: &lastMonth},
		{FullName: "Maya Firdaus", Email: "maya.firdaus@corp.example", JobTitle: "SRE", DepartmentID: &departments[0].ID, Status: models.EmployeeStatusMoving},
		{FullName: "Hendra Wijaya", Email: "hendra.wijaya@corp.example", JobTitle: "Support Analyst", DepartmentID: &departments[2].ID, Status: models.EmployeeStatusLeaving, EndDate: &nextWeek},
	}
	for i := range employees {
		if err := s.employees.Create(ctx, &employees[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed employees")
		}
		summary.Employees++
	}

	template := models.WorkflowTemplate{
		Name:        "Standard Joiner Onboarding",
		Description: "Default onboarding checklist for new hires",
		Type:        models.WorkflowTypeJoiner,
		Status:      models.TemplateStatusActive,
	}
	if err := s.templates.Create(ctx, &template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed templates")
	}
	summary.Templates++

	templateSteps := []models.TemplateStep{
		{TemplateID: template.ID, Name: "Create accounts", Description: "Provision email and SSO", ResponsibleRole: string(models.RoleITSupport), SLAHours: 24, Required: true, OrderIndex: 1},
		{TemplateID: template.ID, Name: "Prepare hardware", Description: "Laptop and peripherals", ResponsibleRole: string(models.RoleITSupport), SLAHours: 48, Required: true, OrderIndex: 2},
		{TemplateID: template.ID, Name: "Welcome meeting", Description: "Intro with the hiring manager", ResponsibleRole: string(models.RoleManager), SLAHours: 72, Required: false, OrderIndex: 3},
	}
	for i := range templateSteps {
		if err := s.templates.CreateStep(ctx, &templateSteps[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed template steps")
		}
	}

	workflow := models.Workflow{
		TemplateID: &template.ID,
		EmployeeID: employees[0].ID,
		Name:       template.Name,
		Type:       template.Type,
		Status:     models.WorkflowStatusPending,
		DueDate:    &nextWeek,
	}
	if err := s.workflows.Create(ctx, &workflow); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed workflows")
	}
	summary.Workflows++

	var firstStepID string
	for _, templateStep := range templateSteps {
		step := models.WorkflowStep{
			WorkflowID:  workflow.ID,
			Name:        templateStep.Name,
			Description: templateStep.Description,
			OrderIndex:  templateStep.OrderIndex,
			Status:      models.StepStatusPending,
		}
		if err := s.workflows.CreateStep(ctx, &step); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed workflow steps")
		}
		if firstStepID == "" {
			firstStepID = step.ID
		}
	}

	tasks := []models.Task{
		{WorkflowStepID: &firstStepID, Title: "Create AD account", Status: models.TaskStatusPending, Priority: models.TaskPriorityUrgent},
		{WorkflowStepID: &firstStepID, Title: "Add to payroll", Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh},
		{Title: "Order desk nameplate", Status: models.TaskStatusPending, Priority: models.TaskPriorityLow},
	}
	for i := range tasks {
		if err := s.tasks.Create(ctx, &tasks[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed tasks")
		}
		summary.Tasks++
	}

	notification := models.Notification{
		UserID:  users[1].ID,
		Title:   "New joiner workflow created",
		Message: "Standard Joiner Onboarding started for Rani Kusuma",
		Type:    "workflow",
	}
	if err := s.notifications.Create(ctx, &notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed notifications")
	}

	if err := s.audit.Record(ctx, meta, models.AuditActionSeed, "seed", "", "inserted demonstration dataset"); err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.InvalidateCaches(ctx)
	}
	return summary, nil
}
