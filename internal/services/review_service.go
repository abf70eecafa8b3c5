package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/pkg/apperrors"
)

type ReviewService interface {
	CreateReliabilityReview(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.CreateReliabilityReviewRequest) (*dto.ReliabilityReviewResponse, error)
	GetReliabilitySummary(ctx context.Context, db *gorm.DB, userID string) (*dto.ReliabilitySummary, error)
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	jobRepo    repositories.JobRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository, jobRepo repositories.JobRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		jobRepo:    jobRepo,
	}
}

// CreateReliabilityReview - отзыв о надежности другой стороны после поздней отмены
func (s *reviewService) CreateReliabilityReview(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.CreateReliabilityReviewRequest) (*dto.ReliabilityReviewResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindJobByID(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}

	if !rules.CanLeaveReliabilityReview(job, userID) {
		return nil, deny("reliability_review", userID, apperrors.ErrReviewNotEligible,
			"job_id", jobID, "status", job.Status)
	}

	revieweeID, ok := rules.Counterparty(job, userID)
	if !ok {
		return nil, deny("reliability_review", userID, apperrors.ErrReviewNotEligible,
			"job_id", jobID, "reason", "no counterparty")
	}

	review := &models.ReliabilityReview{
		JobID:      jobID,
		ReviewerID: userID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.reviewRepo.CreateReview(tx, review); err != nil {
		return nil, handleReviewError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	telemetry.ReliabilityReviews.Inc()
	logger.CtxInfo(ctx, "reliability review created", "job_id", jobID, "reviewee_id", revieweeID)

	return &dto.ReliabilityReviewResponse{
		ID:         review.ID,
		JobID:      review.JobID,
		ReviewerID: review.ReviewerID,
		RevieweeID: review.RevieweeID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}, nil
}

func (s *reviewService) GetReliabilitySummary(ctx context.Context, db *gorm.DB, userID string) (*dto.ReliabilitySummary, error) {
	stats, err := s.reviewRepo.GetReliabilityStats(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ReliabilitySummary{
		AverageRating: stats.AverageRating,
		TotalReviews:  stats.TotalReviews,
	}, nil
}

func handleReviewError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrReviewAlreadyExists):
		return apperrors.ErrReviewAlreadyExists.WithError(err)
	case errors.Is(err, repositories.ErrInvalidReviewRating):
		return apperrors.ValidationError(map[string]string{"rating": "Must be between 1 and 5"})
	}
	return apperrors.InternalError(err)
}
