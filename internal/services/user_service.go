package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/pkg/apperrors"
)

type UserService interface {
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error)
	// SyncSnapshot сохраняет строку пользователя, присланную провайдером идентификации
	SyncSnapshot(ctx context.Context, db *gorm.DB, raw map[string]any) (*dto.MeResponse, error)
}

type userService struct {
	userRepo     repositories.UserRepository
	auditRepo    repositories.AuditRepository
	reviews      ReviewService
	entitlements EntitlementService
}

func NewUserService(
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	reviews ReviewService,
	entitlements EntitlementService,
) UserService {
	return &userService{
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		reviews:      reviews,
		entitlements: entitlements,
	}
}

func (s *userService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	resp := buildMeResponse(user)

	summary, err := s.reviews.GetReliabilitySummary(ctx, db, userID)
	if err != nil {
		// сводка необязательна для профиля
		logger.CtxWithError(ctx, "failed to load reliability summary", err, "user_id", userID)
	} else {
		resp.Reliability = *summary
	}
	return resp, nil
}

func (s *userService) SyncSnapshot(ctx context.Context, db *gorm.DB, raw map[string]any) (*dto.MeResponse, error) {
	user, err := repositories.NormalizeUserSnapshot(raw)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidSnapshot) {
			return nil, apperrors.ValidationError(map[string]string{"snapshot": err.Error()})
		}
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.Upsert(tx, user, repositories.SnapshotColumns(raw)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// в ответ идет итоговая строка, а не снимок: часть полей остается локальной
	user, err = s.userRepo.FindByID(tx, user.ID)
	if err != nil {
		return nil, handleUserError(err)
	}

	target := user.ID
	entry := &models.AuditLog{
		ActorID:      ActorIdentity,
		TargetUserID: &target,
		Action:       models.AuditUserSynced,
		Detail:       fmt.Sprintf("role=%s abn_status=%s plan=%s", user.Role, user.Verification.Status, user.PlanID),
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.entitlements.Invalidate(ctx, user.ID)
	logger.CtxInfo(ctx, "user snapshot synced", "user_id", user.ID, "role", user.Role)

	return buildMeResponse(user), nil
}

func buildMeResponse(user *models.User) *dto.MeResponse {
	entitlement := rules.EntitlementOf(user)
	resp := &dto.MeResponse{
		ID:                 user.ID,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		Role:               string(user.Role),
		IsAdmin:            rules.IsAdmin(user),
		Verification:       *buildVerificationResponse(user),
		PlanID:             string(user.PlanID),
		SubscriptionStatus: string(user.SubscriptionStatus),
		PrimaryTrade:       user.PrimaryTrade,
		Website:            user.Website,
		Capabilities:       capabilityMap(entitlement),
		CreatedAt:          user.CreatedAt,
	}
	// без capability виден только основной трейд
	if rules.HasCapability(entitlement, rules.CapabilityAdditionalTrades) {
		resp.AdditionalTrades = []string(user.AdditionalTrades)
	}
	return resp
}
