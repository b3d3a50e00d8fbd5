package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
)

type mockTemplateRepo struct {
	templates    map[string]models.WorkflowTemplate
	steps        map[string][]models.TemplateStep
	stepsDeleted []string
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{
		templates: make(map[string]models.WorkflowTemplate),
		steps:     make(map[string][]models.TemplateStep),
	}
}

func (m *mockTemplateRepo) List(ctx context.Context, filter models.TemplateFilter) ([]models.WorkflowTemplate, error) {
	var list []models.WorkflowTemplate
	for _, tmpl := range m.templates {
		list = append(list, tmpl)
	}
	return list, nil
}

func (m *mockTemplateRepo) FindByID(ctx context.Context, id string) (*models.WorkflowTemplate, error) {
	if tmpl, ok := m.templates[id]; ok {
		return &tmpl, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTemplateRepo) Create(ctx context.Context, template *models.WorkflowTemplate) error {
	if template.ID == "" {
		template.ID = "tmpl-new"
	}
	m.templates[template.ID] = *template
	return nil
}

func (m *mockTemplateRepo) Update(ctx context.Context, template *models.WorkflowTemplate) error {
	m.templates[template.ID] = *template
	return nil
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

func (m *mockTemplateRepo) ListSteps(ctx context.Context, templateID string) ([]models.TemplateStep, error) {
	return m.steps[templateID], nil
}

func (m *mockTemplateRepo) CreateStep(ctx context.Context, step *models.TemplateStep) error {
	if step.ID == "" {
		step.ID = "ts-new"
	}
	m.steps[step.TemplateID] = append(m.steps[step.TemplateID], *step)
	return nil
}

func (m *mockTemplateRepo) DeleteSteps(ctx context.Context, templateID string) error {
	m.steps[templateID] = nil
	m.stepsDeleted = append(m.stepsDeleted, templateID)
	return nil
}

func TestCreateTemplateWithEmbeddedSteps(t *testing.T) {
	repo := newMockTemplateRepo()
	audit := &mockAuditRecorder{}
	svc := NewTemplateService(repo, audit, nil, nil)

	detail, err := svc.Create(context.Background(), models.RequestMeta{}, CreateTemplateRequest{
		Name: "Standard Joiner",
		Type: "joiner",
		Steps: []TemplateStepPayload{
			{Name: "Accounts", OrderIndex: 1, SLAHours: 24},
			{Name: "Hardware", OrderIndex: 2, SLAHours: 48},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.TemplateStatusDraft, detail.Status)
	require.Len(t, detail.Steps, 2)
	assert.Equal(t, "Accounts", detail.Steps[0].Name)
	assert.Equal(t, detail.ID, detail.Steps[0].TemplateID)
	assert.True(t, detail.Steps[0].Required)
	assert.Contains(t, audit.records, "CREATE:template")
}

func TestUpdateTemplateReplacesSteps(t *testing.T) {
	repo := newMockTemplateRepo()
	repo.templates["tmpl-1"] = models.WorkflowTemplate{ID: "tmpl-1", Name: "Old", Type: models.WorkflowTypeJoiner, Status: models.TemplateStatusActive}
	repo.steps["tmpl-1"] = []models.TemplateStep{
		{ID: "ts-1", TemplateID: "tmpl-1", Name: "Old A", OrderIndex: 1},
		{ID: "ts-2", TemplateID: "tmpl-1", Name: "Old B", OrderIndex: 2},
		{ID: "ts-3", TemplateID: "tmpl-1", Name: "Old C", OrderIndex: 3},
	}
	svc := NewTemplateService(repo, &mockAuditRecorder{}, nil, nil)

	newSteps := []TemplateStepPayload{{Name: "Only Step", OrderIndex: 1}}
	detail, err := svc.Update(context.Background(), models.RequestMeta{}, "tmpl-1", UpdateTemplateRequest{Steps: &newSteps})
	require.NoError(t, err)

	assert.Equal(t, []string{"tmpl-1"}, repo.stepsDeleted)
	require.Len(t, detail.Steps, 1)
	assert.Equal(t, "Only Step", detail.Steps[0].Name)
}

func TestUpdateTemplateWithoutStepsLeavesThem(t *testing.T) {
	repo := newMockTemplateRepo()
	repo.templates["tmpl-1"] = models.WorkflowTemplate{ID: "tmpl-1", Name: "Old", Type: models.WorkflowTypeJoiner}
	repo.steps["tmpl-1"] = []models.TemplateStep{{ID: "ts-1", TemplateID: "tmpl-1", Name: "Keep", OrderIndex: 1}}
	svc := NewTemplateService(repo, &mockAuditRecorder{}, nil, nil)

	name := "Renamed"
	detail, err := svc.Update(context.Background(), models.RequestMeta{}, "tmpl-1", UpdateTemplateRequest{Name: &name})
	require.NoError(t, err)

	assert.Empty(t, repo.stepsDeleted)
	assert.Equal(t, "Renamed", detail.Name)
	require.Len(t, detail.Steps, 1)
	assert.Equal(t, "Keep", detail.Steps[0].Name)
}

func TestAddStepAppendsToExistingTemplate(t *testing.T) {
	repo := newMockTemplateRepo()
	repo.templates["tmpl-1"] = models.WorkflowTemplate{ID: "tmpl-1", Name: "T", Type: models.WorkflowTypeJoiner}
	repo.steps["tmpl-1"] = []models.TemplateStep{{ID: "ts-1", TemplateID: "tmpl-1", Name: "A", OrderIndex: 1}}
	audit := &mockAuditRecorder{}
	svc := NewTemplateService(repo, audit, nil, nil)

	step, err := svc.AddStep(context.Background(), models.RequestMeta{}, "tmpl-1", TemplateStepPayload{Name: "B", OrderIndex: 2, SLAHours: 8})
	require.NoError(t, err)
	assert.Equal(t, "B", step.Name)
	assert.True(t, step.Required)
	assert.Len(t, repo.steps["tmpl-1"], 2)
	assert.Contains(t, audit.records, "UPDATE:template")
}

func TestAddStepUnknownTemplate(t *testing.T) {
	svc := NewTemplateService(newMockTemplateRepo(), &mockAuditRecorder{}, nil, nil)

	_, err := svc.AddStep(context.Background(), models.RequestMeta{}, "ghost", TemplateStepPayload{Name: "B"})
	require.Error(t, err)
}

func TestGetTemplateIncludesOrderedSteps(t *testing.T) {
	repo := newMockTemplateRepo()
	repo.templates["tmpl-1"] = models.WorkflowTemplate{ID: "tmpl-1", Name: "T", Type: models.WorkflowTypeLeaver}
	repo.steps["tmpl-1"] = []models.TemplateStep{
		{ID: "ts-1", Name: "A", OrderIndex: 1},
		{ID: "ts-2", Name: "B", OrderIndex: 2},
	}
	svc := NewTemplateService(repo, &mockAuditRecorder{}, nil, nil)

	detail, err := svc.Get(context.Background(), "tmpl-1")
	require.NoError(t, err)
	require.Len(t, detail.Steps, 2)
	assert.Equal(t, "A", detail.Steps[0].Name)
}
