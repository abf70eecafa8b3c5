package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tradematch_backend/internal/email"
	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/internal/utils"
	"tradematch_backend/pkg/apperrors"
)

type VerificationService interface {
	GetVerification(ctx context.Context, db *gorm.DB, userID string) (*dto.VerificationResponse, error)
	SubmitABN(ctx context.Context, db *gorm.DB, userID, abn string) (*dto.VerificationResponse, error)
	DecideVerification(ctx context.Context, db *gorm.DB, adminID, userID, status string) error
}

type verificationService struct {
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditRepository
	notifier  email.Provider
	now       Clock
}

func NewVerificationService(
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	notifier email.Provider,
	now Clock,
) VerificationService {
	if now == nil {
		now = systemClock
	}
	return &verificationService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
		now:       now,
	}
}

func (s *verificationService) GetVerification(ctx context.Context, db *gorm.DB, userID string) (*dto.VerificationResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return buildVerificationResponse(user), nil
}

// SubmitABN сохраняет номер и ставит проверку в pending.
// Повторная отправка уже подтвержденного номера ничего не меняет.
func (s *verificationService) SubmitABN(ctx context.Context, db *gorm.DB, userID, abn string) (*dto.VerificationResponse, error) {
	normalized := utils.NormalizeABN(abn)
	if !utils.IsValidABN(normalized) {
		return nil, apperrors.ErrInvalidABN
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if rules.IsVerified(user) && user.Verification.Number == normalized {
		return buildVerificationResponse(user), nil
	}

	if err := s.userRepo.UpdateABN(tx, userID, normalized); err != nil {
		return nil, handleUserError(err)
	}

	target := userID
	entry := &models.AuditLog{
		ActorID:      userID,
		TargetUserID: &target,
		Action:       models.AuditABNSubmitted,
		Detail:       "abn submitted for review",
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "abn submitted", "user_id", userID)

	user.Verification = models.Verification{Number: normalized, Status: models.VerificationPending}
	return buildVerificationResponse(user), nil
}

// DecideVerification - решение администратора. Запись пользователя и запись
// аудита сохраняются в одной транзакции.
func (s *verificationService) DecideVerification(ctx context.Context, db *gorm.DB, adminID, userID, status string) error {
	next, ok := models.ParseVerificationStatus(status)
	if !ok {
		return apperrors.ErrInvalidVerificationStatus
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return handleUserError(err)
	}

	previous := user.Verification.Status
	decided := ApplyVerificationDecision(user.Verification, next, adminID, s.now())

	if err := s.userRepo.UpdateVerification(tx, userID, decided); err != nil {
		return handleUserError(err)
	}

	target := userID
	entry := &models.AuditLog{
		ActorID:      adminID,
		TargetUserID: &target,
		Action:       models.AuditVerificationDecision,
		Detail:       fmt.Sprintf("%s -> %s", previous, next),
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	telemetry.VerificationDecisions.WithLabelValues(string(next)).Inc()
	logger.CtxInfo(ctx, "verification decided",
		"admin_id", adminID,
		"user_id", userID,
		"from", previous,
		"to", next,
	)

	if next.IsTerminal() {
		s.notifyDecision(ctx, user, next)
	}
	return nil
}

// ApplyVerificationDecision вычисляет новое состояние проверки.
// verified: ставит VerifiedAt/VerifiedBy и флаг.
// rejected: очищает их, запоминает ревьюера в ReviewedAt/ReviewedBy.
// unverified/pending: очищает всё.
func ApplyVerificationDecision(current models.Verification, next models.VerificationStatus, reviewerID string, now time.Time) models.Verification {
	out := models.Verification{
		Number: current.Number,
		Status: next,
	}

	if !next.IsTerminal() {
		return out
	}

	at := now
	by := reviewerID
	out.ReviewedAt = &at
	out.ReviewedBy = &by

	if next == models.VerificationVerified {
		verifiedAt := now
		verifiedBy := reviewerID
		out.Verified = true
		out.VerifiedAt = &verifiedAt
		out.VerifiedBy = &verifiedBy
	}
	return out
}

// notifyDecision - best effort, ошибка отправки только логируется
func (s *verificationService) notifyDecision(ctx context.Context, user *models.User, status models.VerificationStatus) {
	if s.notifier == nil || user.Email == "" {
		return
	}
	err := s.notifier.SendTemplate(
		[]string{user.Email},
		"Your ABN verification has been reviewed",
		email.TemplateVerificationDecision,
		email.TemplateData{"Name": user.DisplayName, "Status": string(status)},
	)
	if err != nil {
		logger.CtxWithError(ctx, "failed to send verification email", err, "user_id", user.ID)
	}
}

func buildVerificationResponse(user *models.User) *dto.VerificationResponse {
	v := user.Verification
	status := v.Status
	if status == "" {
		status = models.VerificationUnverified
	}
	resp := &dto.VerificationResponse{
		UserID:     user.ID,
		Status:     string(status),
		Verified:   rules.IsVerified(user),
		VerifiedAt: v.VerifiedAt,
		ReviewedAt: v.ReviewedAt,
	}
	if v.Number != "" {
		resp.ABN = utils.FormatABN(v.Number)
	}
	return resp
}
