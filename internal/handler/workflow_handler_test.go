package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
	"github.com/jmlhub/jml-api/internal/service"
)

type stubWorkflowRepo struct {
	workflows map[string]models.Workflow
	steps     map[string]models.WorkflowStep
}

func newStubWorkflowRepo() *stubWorkflowRepo {
	return &stubWorkflowRepo{
		workflows: make(map[string]models.Workflow),
		steps:     make(map[string]models.WorkflowStep),
	}
}

func (s *stubWorkflowRepo) List(ctx context.Context, filter models.WorkflowFilter) ([]models.Workflow, error) {
	var list []models.Workflow
	for _, w := range s.workflows {
		list = append(list, w)
	}
	return list, nil
}

func (s *stubWorkflowRepo) FindByID(ctx context.Context, id string) (*models.Workflow, error) {
	if w, ok := s.workflows[id]; ok {
		return &w, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubWorkflowRepo) Create(ctx context.Context, workflow *models.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = "wf-new"
	}
	s.workflows[workflow.ID] = *workflow
	return nil
}

func (s *stubWorkflowRepo) Update(ctx context.Context, workflow *models.Workflow) error {
	s.workflows[workflow.ID] = *workflow
	return nil
}

func (s *stubWorkflowRepo) Delete(ctx context.Context, id string) error {
	delete(s.workflows, id)
	return nil
}

func (s *stubWorkflowRepo) ListSteps(ctx context.Context, workflowID string) ([]models.WorkflowStep, error) {
	var list []models.WorkflowStep
	for _, step := range s.steps {
		if step.WorkflowID == workflowID {
			list = append(list, step)
		}
	}
	return list, nil
}

func (s *stubWorkflowRepo) FindStepByID(ctx context.Context, id string) (*models.WorkflowStep, error) {
	if step, ok := s.steps[id]; ok {
		return &step, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubWorkflowRepo) CreateStep(ctx context.Context, step *models.WorkflowStep) error {
	if step.ID == "" {
		step.ID = "ws-new"
	}
	s.steps[step.ID] = *step
	return nil
}

func (s *stubWorkflowRepo) UpdateStep(ctx context.Context, step *models.WorkflowStep) error {
	s.steps[step.ID] = *step
	return nil
}

type stubTemplateReader struct{}

func (s *stubTemplateReader) FindByID(ctx context.Context, id string) (*models.WorkflowTemplate, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTemplateReader) ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error) {
	return nil, nil
}

type stubEmployeeReader struct {
	employee *models.Employee
}

func (s *stubEmployeeReader) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if s.employee != nil && s.employee.ID == id {
		return s.employee, nil
	}
	return nil, sql.ErrNoRows
}

func newWorkflowHandler(repo *stubWorkflowRepo, employee *models.Employee) *WorkflowHandler {
	svc := service.NewWorkflowService(repo, &stubTemplateReader{}, &stubEmployeeReader{employee: employee}, &stubAuditRecorder{}, nil, nil, nil)
	return NewWorkflowHandler(svc)
}

func TestUpdateStepInvalidJSON(t *testing.T) {
	h := newWorkflowHandler(newStubWorkflowRepo(), nil)

	c, w := newTestContext(t, http.MethodPatch, "/api/workflow-steps/ws-1", []byte("{broken"))
	c.Params = gin.Params{{Key: "id", Value: "ws-1"}}

	h.UpdateStep(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid payload")
}

func TestUpdateStepCompletionBumpsWorkflowProgress(t *testing.T) {
	repo := newStubWorkflowRepo()
	repo.workflows["wf-1"] = models.Workflow{ID: "wf-1", EmployeeID: "emp-1", Name: "Onboarding", Type: models.WorkflowTypeJoiner, Status: models.WorkflowStatusPending}
	repo.steps["ws-1"] = models.WorkflowStep{ID: "ws-1", WorkflowID: "wf-1", Name: "Accounts", OrderIndex: 1, Status: models.StepStatusPending}
	repo.steps["ws-2"] = models.WorkflowStep{ID: "ws-2", WorkflowID: "wf-1", Name: "Hardware", OrderIndex: 2, Status: models.StepStatusPending}
	h := newWorkflowHandler(repo, nil)

	payload, _ := json.Marshal(map[string]string{"status": "completed"})
	c, w := newTestContext(t, http.MethodPatch, "/api/workflow-steps/ws-1", payload)
	c.Params = gin.Params{{Key: "id", Value: "ws-1"}}

	h.UpdateStep(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, repo.workflows["wf-1"].Progress)
	assert.Equal(t, models.WorkflowStatusInProgress, repo.workflows["wf-1"].Status)
}

func TestCreateWorkflowUnknownEmployee(t *testing.T) {
	h := newWorkflowHandler(newStubWorkflowRepo(), nil)

	payload, _ := json.Marshal(map[string]string{
		"employee_id": "ghost",
		"name":        "Offboarding",
		"type":        "leaver",
	})
	c, w := newTestContext(t, http.MethodPost, "/api/workflows", payload)

	h.Create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateWorkflowWithoutTemplate(t *testing.T) {
	repo := newStubWorkflowRepo()
	employee := &models.Employee{ID: "emp-1", FullName: "Rani Kusuma", Status: models.EmployeeStatusJoining}
	h := newWorkflowHandler(repo, employee)

	payload, _ := json.Marshal(map[string]string{
		"employee_id": "emp-1",
		"name":        "Manual Onboarding",
		"type":        "joiner",
	})
	c, w := newTestContext(t, http.MethodPost, "/api/workflows", payload)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.workflows, 1)
	for _, wf := range repo.workflows {
		assert.Equal(t, models.WorkflowStatusPending, wf.Status)
		assert.Equal(t, 0, wf.Progress)
	}
}
