package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]models.User
	byEmail map[string]string
	deleted []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]models.User), byEmail: make(map[string]string)}
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := m.byEmail[email]; ok {
		user := m.users[id]
		return &user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var list []models.User
	for _, user := range m.users {
		list = append(list, user)
	}
	return list, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-new"
	}
	m.users[user.ID] = *user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	audit := &mockAuditRecorder{}
	svc := NewUserService(repo, audit, nil, nil)

	user, err := svc.Create(context.Background(), models.RequestMeta{}, CreateUserRequest{
		Email:    "jane@corp.example",
		Password: "s3cret-pass",
		FullName: "Jane Doe",
		Role:     "HR_MANAGER",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	assert.True(t, user.Active)
	assert.Contains(t, audit.records, "CREATE:user")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.Create(context.Background(), &models.User{ID: "u1", Email: "taken@corp.example"})
	svc := NewUserService(repo, &mockAuditRecorder{}, nil, nil)

	_, err := svc.Create(context.Background(), models.RequestMeta{}, CreateUserRequest{
		Email:    "taken@corp.example",
		Password: "s3cret-pass",
		FullName: "Dup",
		Role:     "EMPLOYEE",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreateUserValidationFieldErrors(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), &mockAuditRecorder{}, nil, nil)

	_, err := svc.Create(context.Background(), models.RequestMeta{}, CreateUserRequest{
		Email:    "not-an-email",
		Password: "short",
		FullName: "X",
		Role:     "EMPLOYEE",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.NotEmpty(t, appErr.Fields)

	fields := make(map[string]bool)
	for _, fieldErr := range appErr.Fields {
		fields[fieldErr.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestUpdateUserRehashesPasswordWhenPresent(t *testing.T) {
	repo := newMockUserRepo()
	repo.Create(context.Background(), &models.User{ID: "u1", Email: "jane@corp.example", PasswordHash: "old-hash", FullName: "Jane", Role: models.RoleEmployee, Active: true})
	svc := NewUserService(repo, &mockAuditRecorder{}, nil, nil)

	password := "brand-new-pass"
	user, err := svc.Update(context.Background(), models.RequestMeta{}, "u1", UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
	assert.Equal(t, "jane@corp.example", user.Email)
}

func TestUpdateUserMergesOnlySuppliedFields(t *testing.T) {
	repo := newMockUserRepo()
	repo.Create(context.Background(), &models.User{ID: "u1", Email: "jane@corp.example", PasswordHash: "hash", FullName: "Jane", Role: models.RoleEmployee, Active: true})
	svc := NewUserService(repo, &mockAuditRecorder{}, nil, nil)

	fullName := "Jane Q. Doe"
	user, err := svc.Update(context.Background(), models.RequestMeta{}, "u1", UpdateUserRequest{FullName: &fullName})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", user.FullName)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, models.RoleEmployee, user.Role)
}

func TestDeleteUserSucceedsWithoutExistenceCheck(t *testing.T) {
	repo := newMockUserRepo()
	audit := &mockAuditRecorder{}
	svc := NewUserService(repo, audit, nil, nil)

	err := svc.Delete(context.Background(), models.RequestMeta{}, "missing-user")
	require.NoError(t, err)
	assert.Equal(t, []string{"missing-user"}, repo.deleted)
	assert.Contains(t, audit.records, "DELETE:user")
}
