package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
	"github.com/jmlhub/jml-api/internal/service"
)

type stubAuditRecorder struct {
	records []string
}

func (s *stubAuditRecorder) Record(ctx context.Context, meta models.RequestMeta, action, resource, resourceID, description string) error {
	s.records = append(s.records, action+":"+resource)
	return nil
}

type stubUserRepo struct {
	users map[string]models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]models.User)}
}

func (s *stubUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var list []models.User
	for _, u := range s.users {
		list = append(list, u)
	}
	return list, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-new"
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func newTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestCreateUserNeverLeaksPasswordHash(t *testing.T) {
	repo := newStubUserRepo()
	h := NewUserHandler(service.NewUserService(repo, &stubAuditRecorder{}, nil, nil))

	payload, _ := json.Marshal(map[string]interface{}{
		"email":     "new@corp.example",
		"password":  "ChangeMe123!",
		"full_name": "New Person",
		"role":      "EMPLOYEE",
	})
	c, w := newTestContext(t, http.MethodPost, "/api/users", payload)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "new@corp.example", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
}

func TestCreateUserInvalidJSON(t *testing.T) {
	h := NewUserHandler(service.NewUserService(newStubUserRepo(), &stubAuditRecorder{}, nil, nil))

	c, w := newTestContext(t, http.MethodPost, "/api/users", []byte("{not json"))

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid payload")
}

func TestDeleteUserReturnsNoContent(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["u1"] = models.User{ID: "u1", Email: "old@corp.example"}
	audit := &stubAuditRecorder{}
	h := NewUserHandler(service.NewUserService(repo, audit, nil, nil))

	c, w := newTestContext(t, http.MethodDelete, "/api/users/u1", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.users)
	assert.Contains(t, audit.records, "DELETE:user")
}

func TestDeleteMissingUserStillSucceeds(t *testing.T) {
	h := NewUserHandler(service.NewUserService(newStubUserRepo(), &stubAuditRecorder{}, nil, nil))

	c, w := newTestContext(t, http.MethodDelete, "/api/users/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
