package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, error)
}

// auditRecorder is what entity services need to append activity rows.
// A failed append fails the surrounding request; there is no isolation.
type auditRecorder interface {
	Record(ctx context.Context, meta models.RequestMeta, action, resource, resourceID, description string) error
}

// AuditService records and lists activity history.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one activity row.
func (s *AuditService) Record(ctx context.Context, meta models.RequestMeta, action, resource, resourceID, description string) error {
	log := &models.AuditLog{
		UserID:      meta.ActorID,
		Action:      action,
		Resource:    resource,
		Description: description,
		IPAddress:   meta.IP,
		UserAgent:   meta.UserAgent,
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record audit log")
	}
	return nil
}

// List returns the newest matching entries, capped by the repository.
func (s *AuditService) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, error) {
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}
