package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type mockEmployeeRepo struct {
	employees map[string]models.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]models.Employee)}
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	var list []models.Employee
	for _, e := range m.employees {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.DepartmentID != "" && (e.DepartmentID == nil || *e.DepartmentID != filter.DepartmentID) {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

func (m *mockEmployeeRepo) Search(ctx context.Context, term string) ([]models.Employee, error) {
	var list []models.Employee
	for _, e := range m.employees {
		if strings.Contains(strings.ToLower(e.FullName), strings.ToLower(term)) {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = "emp-new"
	}
	m.employees[employee.ID] = *employee
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	m.employees[employee.ID] = *employee
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) error {
	delete(m.employees, id)
	return nil
}

func TestCreateEmployeeDefaultsToJoining(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, nil, nil, nil)

	employee, err := svc.Create(context.Background(), models.RequestMeta{}, CreateEmployeeRequest{
		FullName: "Rani Kusuma",
		Email:    "rani@corp.example",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusJoining, employee.Status)
}

func TestCreateEmployeeRejectsUnknownStatus(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.RequestMeta{}, CreateEmployeeRequest{
		FullName: "Rani Kusuma",
		Email:    "rani@corp.example",
		Status:   "vacationing",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCreateEmployeeNamesFieldsLikeThePayload(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.RequestMeta{}, CreateEmployeeRequest{Email: "not-an-email"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	fields := make(map[string]string)
	for _, fe := range appErr.Fields {
		fields[fe.Field] = fe.Reason
	}
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "FullName")
}

func TestCreateEmployeeInvalidatesDashboardCaches(t *testing.T) {
	stats := &mockStatsInvalidator{}
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, stats, nil, nil)

	_, err := svc.Create(context.Background(), models.RequestMeta{}, CreateEmployeeRequest{
		FullName: "Rani Kusuma",
		Email:    "rani@corp.example",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.calls)
}

func TestSearchEmployeesRequiresTerm(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, nil, nil, nil)

	_, err := svc.Search(context.Background(), "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUpdateEmployeeMergesOnlySuppliedFields(t *testing.T) {
	repo := newMockEmployeeRepo()
	department := "dept-1"
	repo.employees["emp-1"] = models.Employee{
		ID:           "emp-1",
		FullName:     "Joko Santoso",
		Email:        "joko@corp.example",
		JobTitle:     "HR Generalist",
		DepartmentID: &department,
		Status:       models.EmployeeStatusActive,
	}
	svc := NewEmployeeService(repo, &mockAuditRecorder{}, nil, nil, nil)

	status := "leaving"
	employee, err := svc.Update(context.Background(), models.RequestMeta{}, "emp-1", UpdateEmployeeRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusLeaving, employee.Status)
	assert.Equal(t, "Joko Santoso", employee.FullName)
	assert.Equal(t, "HR Generalist", employee.JobTitle)
	require.NotNil(t, employee.DepartmentID)
	assert.Equal(t, "dept-1", *employee.DepartmentID)
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	svc := NewEmployeeService(newMockEmployeeRepo(), &mockAuditRecorder{}, nil, nil, nil)

	name := "Ghost"
	_, err := svc.Update(context.Background(), models.RequestMeta{}, "ghost", UpdateEmployeeRequest{FullName: &name})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
