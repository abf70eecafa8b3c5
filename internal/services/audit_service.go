package services

import (
	"context"

	"gorm.io/gorm"

	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/pkg/apperrors"
)

// AuditService - только чтение журнала для администраторов.
// Записи создают сами сервисы внутри своих транзакций.
type AuditService interface {
	ListAuditLogs(ctx context.Context, db *gorm.DB, query *dto.AuditListQuery) (*dto.AuditLogListResponse, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, db *gorm.DB, query *dto.AuditListQuery) (*dto.AuditLogListResponse, error) {
	page, pageSize := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	entries, total, err := s.auditRepo.List(db, repositories.AuditFilter{
		ActorID:      query.ActorID,
		TargetUserID: query.TargetUserID,
		Action:       models.AuditAction(query.Action),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AuditLogListResponse{
		Entries:    make([]*dto.AuditLogResponse, 0, len(entries)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, &dto.AuditLogResponse{
			ID:           e.ID,
			ActorID:      e.ActorID,
			TargetUserID: e.TargetUserID,
			Action:       string(e.Action),
			Detail:       e.Detail,
			CreatedAt:    e.CreatedAt,
		})
	}
	return resp, nil
}
