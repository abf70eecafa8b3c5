package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/pkg/apperrors"
)

// Системные акторы для записей аудита без пользователя-инициатора
const (
	ActorPayments = "system:payments"
	ActorIdentity = "system:identity"
)

type SubscriptionService interface {
	VerifySignature(payload []byte, signature string) error
	ApplyPaymentEvent(ctx context.Context, db *gorm.DB, event *dto.PaymentWebhookEvent) error
}

type subscriptionService struct {
	userRepo      repositories.UserRepository
	auditRepo     repositories.AuditRepository
	entitlements  EntitlementService
	webhookSecret []byte
}

func NewSubscriptionService(
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	entitlements EntitlementService,
	webhookSecret string,
) SubscriptionService {
	return &subscriptionService{
		userRepo:      userRepo,
		auditRepo:     auditRepo,
		entitlements:  entitlements,
		webhookSecret: []byte(webhookSecret),
	}
}

// VerifySignature сверяет hex(HMAC-SHA256(body)) из заголовка X-Signature
func (s *subscriptionService) VerifySignature(payload []byte, signature string) error {
	if len(s.webhookSecret) == 0 {
		return apperrors.ErrBadSignature
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil || len(provided) == 0 {
		return apperrors.ErrBadSignature
	}
	if !hmac.Equal(provided, SignPayload(s.webhookSecret, payload)) {
		return apperrors.ErrBadSignature
	}
	return nil
}

func (s *subscriptionService) ApplyPaymentEvent(ctx context.Context, db *gorm.DB, event *dto.PaymentWebhookEvent) error {
	plan, status, err := ResolvePaymentEvent(event)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.UpdatePlan(tx, event.UserID, plan, status); err != nil {
		return handleUserError(err)
	}

	target := event.UserID
	entry := &models.AuditLog{
		ActorID:      ActorPayments,
		TargetUserID: &target,
		Action:       models.AuditSubscriptionChanged,
		Detail:       fmt.Sprintf("%s (%s): plan=%s status=%s", event.Type, event.ID, plan, status),
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.entitlements.Invalidate(ctx, event.UserID)
	logger.CtxInfo(ctx, "subscription updated",
		"event_id", event.ID,
		"user_id", event.UserID,
		"plan_id", plan,
		"status", status,
	)
	return nil
}

// ResolvePaymentEvent переводит событие провайдера в план и статус.
// Отмена оставляет план как есть в событии (или FREE) и делает статус INACTIVE.
func ResolvePaymentEvent(event *dto.PaymentWebhookEvent) (models.PlanID, models.SubscriptionStatus, error) {
	plan := models.PlanFree
	if event.PlanID != "" {
		parsed, ok := models.ParsePlanID(event.PlanID)
		if !ok {
			return "", "", apperrors.ValidationError(map[string]string{"plan_id": "Unknown plan"})
		}
		plan = parsed
	}

	switch event.Type {
	case dto.PaymentEventCancelled:
		return plan, models.SubscriptionInactive, nil
	case dto.PaymentEventActivated:
		if event.PlanID == "" {
			return "", "", apperrors.ValidationError(map[string]string{"plan_id": "This field is required"})
		}
		return plan, models.SubscriptionActive, nil
	case dto.PaymentEventUpdated:
		if event.PlanID == "" {
			return "", "", apperrors.ValidationError(map[string]string{"plan_id": "This field is required"})
		}
		return plan, models.ParseSubscriptionStatus(event.Status), nil
	default:
		return "", "", apperrors.ValidationError(map[string]string{"type": "Unknown event type"})
	}
}

// SignPayload - HMAC-SHA256 тела запроса
func SignPayload(secret, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
