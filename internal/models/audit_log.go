package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog - неизменяемая запись об административном действии.
// Репозиторий умеет только добавлять и читать.
type AuditLog struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	ActorID      string      `gorm:"type:varchar(36);not null;index" json:"actor_id"`
	TargetUserID *string     `gorm:"type:varchar(36);index" json:"target_user_id,omitempty"`
	Action       AuditAction `gorm:"type:varchar(32);not null;index" json:"action"`
	Detail       string      `json:"detail"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
