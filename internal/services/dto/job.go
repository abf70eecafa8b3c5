package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateJobRequest struct {
	Kind           string      `json:"kind" validate:"omitempty,oneof=job tender"`
	Title          string      `json:"title" validate:"required,min=3,max=200"`
	Description    string      `json:"description" validate:"omitempty,max=5000"`
	Trade          string      `json:"trade" validate:"required,trade"`
	Location       string      `json:"location" validate:"required,max=200"`
	ScheduledDates []time.Time `json:"scheduled_dates" validate:"required,min=1,max=60"`
	StartTime      string      `json:"start_time" validate:"omitempty,hhmm"`
}

type ListJobsQuery struct {
	Status   string `form:"status" validate:"omitempty,is-job-status"`
	Kind     string `form:"kind" validate:"omitempty,oneof=job tender"`
	Trade    string `form:"trade" validate:"omitempty,trade"`
	Search   string `form:"q" validate:"omitempty,max=100"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// NearbyJobsQuery - те же фильтры плюс место
type NearbyJobsQuery struct {
	ListJobsQuery
	Location string `form:"location" validate:"required,max=200"`
}

type ApplyRequest struct {
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type CancelJobRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ======================
// Response DTOs
// ======================

type JobResponse struct {
	ID                       string      `json:"id"`
	Slug                     string      `json:"slug"`
	Kind                     string      `json:"kind"`
	Title                    string      `json:"title"`
	Description              string      `json:"description"`
	Trade                    string      `json:"trade"`
	Location                 string      `json:"location"`
	Status                   string      `json:"status"`
	ContractorID             string      `json:"contractor_id"`
	AssignedSubcontractorID  *string     `json:"assigned_subcontractor_id,omitempty"`
	ConfirmedSubcontractorID *string     `json:"confirmed_subcontractor_id,omitempty"`
	ScheduledDates           []time.Time `json:"scheduled_dates"`
	StartTime                *string     `json:"start_time,omitempty"`
	EffectiveStart           *time.Time  `json:"effective_start,omitempty"`
	CancelledAt              *time.Time  `json:"cancelled_at,omitempty"`
	CancellationReason       string      `json:"cancellation_reason,omitempty"`
	LateCancellation         bool        `json:"late_cancellation"`
	CreatedAt                time.Time   `json:"created_at"`
}

type JobListResponse struct {
	Jobs       []*JobResponse `json:"jobs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type ApplicationResponse struct {
	ID              string    `json:"id"`
	JobID           string    `json:"job_id"`
	SubcontractorID string    `json:"subcontractor_id"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CancellationPreviewResponse - предупреждение до отмены.
// HoursUntilStart отсутствует, если у работы нет дат.
type CancellationPreviewResponse struct {
	JobID           string   `json:"job_id"`
	Status          string   `json:"status"`
	HoursUntilStart *float64 `json:"hours_until_start,omitempty"`
	WillBeLate      bool     `json:"will_be_late"`
}

type CancelJobResponse struct {
	Job              *JobResponse `json:"job"`
	LateCancellation bool         `json:"late_cancellation"`
}
