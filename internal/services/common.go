package services

import (
	"errors"
	"time"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/pkg/apperrors"
)

// Clock возвращает текущий момент. В тестах подменяется.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// deny фиксирует отказ правила в логе и метриках и возвращает ошибку для клиента
func deny(rule, subjectID string, err *apperrors.AppError, args ...any) error {
	logger.DecisionLog(rule, subjectID, false, args...)
	telemetry.RuleDenials.WithLabelValues(rule).Inc()
	return err
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound.WithError(err)
	}
	return apperrors.InternalError(err)
}

func handleJobError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrJobNotFound.WithError(err)
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound.WithError(err)
	case errors.Is(err, repositories.ErrApplicationExists):
		return apperrors.ErrAlreadyApplied.WithError(err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}
