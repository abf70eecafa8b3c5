package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	ContractorID             string  `gorm:"type:varchar(36);not null;index" json:"contractor_id"`
	AssignedSubcontractorID  *string `gorm:"type:varchar(36);index" json:"assigned_subcontractor_id,omitempty"`
	ConfirmedSubcontractorID *string `gorm:"type:varchar(36);index" json:"confirmed_subcontractor_id,omitempty"`

	Kind        JobKind `gorm:"type:varchar(16);default:'job'" json:"kind"`
	Title       string  `gorm:"not null" json:"title"`
	Slug        string  `gorm:"uniqueIndex" json:"slug"`
	Description string  `json:"description"`
	Trade       string  `gorm:"index" json:"trade"`
	Location    string  `json:"location"`

	ScheduledDates datatypes.JSONSlice[time.Time] `json:"scheduled_dates"`
	StartTime      *string                        `gorm:"type:varchar(5)" json:"start_time,omitempty"` // HH:MM

	Status JobStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *string    `gorm:"type:varchar(36)" json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	// Фиксируется в момент отмены: была ли работа accepted/confirmed до нее
	WasAcceptedOrConfirmedBeforeCancellation bool `gorm:"default:false" json:"was_accepted_or_confirmed_before_cancellation"`
}

type JobApplication struct {
	BaseModel
	JobID           string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_job_sub" json:"job_id"`
	SubcontractorID string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_job_sub" json:"subcontractor_id"`
	Status          ApplicationStatus `gorm:"type:varchar(16);default:'pending'" json:"status"`
	Message         string            `json:"message"`
}
