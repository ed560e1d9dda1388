package usecase

import (
	"context"

	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditUsecase interface {
	List(ctx context.Context, page, limit int) ([]entity.AuditLog, int64, error)
}

type auditUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditUsecase(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditUsecase {
	return &auditUsecase{db: db, log: log, auditRepo: auditRepo}
}

func (u *auditUsecase) List(ctx context.Context, page, limit int) ([]entity.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	logs, total, err := u.auditRepo.FindAll(u.db.WithContext(ctx), page, limit)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, 0, err
	}
	return logs, total, nil
}
