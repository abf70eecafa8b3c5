package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tradematch_backend/internal/models"
)

var (
	ErrReviewAlreadyExists = errors.New("review already exists for this job")
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
)

type ReliabilityStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.ReliabilityReview) error
	FindReviewByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.ReliabilityReview, error)
	FindReviewsByReviewee(db *gorm.DB, revieweeID string, limit int) ([]models.ReliabilityReview, error)
	GetReliabilityStats(db *gorm.DB, revieweeID string) (*ReliabilityStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.ReliabilityReview) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidReviewRating
	}

	existing, err := r.FindReviewByJobAndReviewer(db, review.JobID, review.ReviewerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrReviewAlreadyExists
	}

	return db.Create(review).Error
}

// FindReviewByJobAndReviewer возвращает nil, nil если отзыва нет
func (r *ReviewRepositoryImpl) FindReviewByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.ReliabilityReview, error) {
	var review models.ReliabilityReview
	err := db.Where("job_id = ? AND reviewer_id = ?", jobID, reviewerID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindReviewsByReviewee(db *gorm.DB, revieweeID string, limit int) ([]models.ReliabilityReview, error) {
	var reviews []models.ReliabilityReview
	_, limit = normalizePage(1, limit)
	err := db.Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) GetReliabilityStats(db *gorm.DB, revieweeID string) (*ReliabilityStats, error) {
	var stats ReliabilityStats
	err := db.Model(&models.ReliabilityReview{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("reviewee_id = ?", revieweeID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
