package services

import (
	"context"
	"fmt"
	"time"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/utils"

	"gorm.io/gorm"
)

type AuditServiceI interface {
	Append(ctx context.Context, tx *gorm.DB, level string, accountID *string, message string) error
	Recent(ctx context.Context, limit int) ([]models.AuditEvent, error)
	RecentForAccount(ctx context.Context, accountID string, limit int) ([]models.AuditEvent, error)
}

type AuditService struct {
	auditRepo    repositories.AuditRepository
	defaultLimit int
	now          func() time.Time
}

func NewAuditService(auditRepo repositories.AuditRepository, defaultLimit int) *AuditService {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &AuditService{auditRepo: auditRepo, defaultLimit: defaultLimit, now: time.Now}
}

// Append writes one event. Passing the caller's transaction makes the event
// commit or roll back together with the change it describes.
func (s *AuditService) Append(ctx context.Context, tx *gorm.DB, level string, accountID *string, message string) error {
	event := &models.AuditEvent{
		Timestamp: s.now().UTC(),
		Level:     level,
		AccountID: accountID,
		Message:   message,
	}
	if err := s.auditRepo.Create(ctx, event, tx); err != nil {
		return storageError(fmt.Errorf("append audit event: %w", err))
	}
	return nil
}

func (s *AuditService) Info(ctx context.Context, tx *gorm.DB, accountID *string, format string, args ...interface{}) error {
	return s.Append(ctx, tx, utils.AuditLevelInfo, accountID, fmt.Sprintf(format, args...))
}

// Recent returns the latest events, newest first. A non-positive limit uses
// the configured default.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	events, err := s.auditRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return events, nil
}

func (s *AuditService) RecentForAccount(ctx context.Context, accountID string, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	events, err := s.auditRepo.GetRecentByAccountID(ctx, accountID, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return events, nil
}
