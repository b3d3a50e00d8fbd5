package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
)

func auditRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "description", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", nil, "CREATE", "employee", "e1", "Created employee", "127.0.0.1", "curl/8.0", now)
}

func TestListAuditLogsCapsAtHundredRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE 1=1 ORDER BY created_at DESC LIMIT 100")).
		WillReturnRows(auditRows(now))

	logs, err := repo.List(context.Background(), models.AuditLogFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAuditLogsCombinesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND resource = $1 AND action = $2 AND user_id = $3 ORDER BY created_at DESC LIMIT 100")).
		WithArgs("workflow", "UPDATE", "u1").
		WillReturnRows(auditRows(now))

	logs, err := repo.List(context.Background(), models.AuditLogFilter{Resource: "workflow", Action: "UPDATE", UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogFillsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{Action: "DELETE", Resource: "task", Description: "Deleted task"}
	err := repo.Create(context.Background(), log)
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
