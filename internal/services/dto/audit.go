package dto

import "time"

type AuditListQuery struct {
	ActorID      string `form:"actor_id" validate:"omitempty,max=36"`
	TargetUserID string `form:"target_user_id" validate:"omitempty,max=36"`
	Action       string `form:"action" validate:"omitempty,oneof=verification_decision abn_submitted job_cancelled subscription_changed user_synced"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type AuditLogResponse struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actor_id"`
	TargetUserID *string   `json:"target_user_id,omitempty"`
	Action       string    `json:"action"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuditLogListResponse struct {
	Entries    []*AuditLogResponse `json:"entries"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}
