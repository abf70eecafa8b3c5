package dto

import "time"

type SubmitABNRequest struct {
	ABN string `json:"abn" validate:"required,abn"`
}

// VerificationDecisionRequest - тело PUT /admin/users/:userId/verification
type VerificationDecisionRequest struct {
	Status string `json:"status" validate:"required,is-verification-status"`
}

type VerificationResponse struct {
	UserID     string     `json:"user_id"`
	ABN        string     `json:"abn,omitempty"`
	Status     string     `json:"status"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}
