package models

// ReliabilityReview - отзыв о надежности после поздней отмены.
// Один отзыв на пару (job, reviewer).
type ReliabilityReview struct {
	BaseModel
	JobID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_job_reviewer" json:"job_id"`
	ReviewerID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_job_reviewer" json:"reviewer_id"`
	RevieweeID string `gorm:"type:varchar(36);not null;index" json:"reviewee_id"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string `json:"comment"`
}
