package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email       string   `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `gorm:"type:varchar(20);not null" json:"role"`
	IsAdmin     bool     `gorm:"default:false" json:"is_admin"`

	Verification Verification `gorm:"embedded;embeddedPrefix:abn_" json:"verification"`

	PlanID             PlanID             `gorm:"type:varchar(32);default:'FREE'" json:"plan_id"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(16);default:'INACTIVE'" json:"subscription_status"`

	AdditionalTradesUnlocked bool                        `gorm:"default:false" json:"additional_trades_unlocked"`
	PrimaryTrade             string                      `json:"primary_trade"`
	Website                  string                      `json:"website,omitempty"`
	AdditionalTrades         datatypes.JSONSlice[string] `json:"additional_trades"`
}

// Verification - состояние проверки ABN. Хранится в колонках abn_*.
type Verification struct {
	Number     string             `gorm:"type:varchar(11)" json:"number"`
	Status     VerificationStatus `gorm:"type:varchar(16);default:'unverified'" json:"status"`
	Verified   bool               `gorm:"default:false" json:"verified"`
	VerifiedAt *time.Time         `json:"verified_at,omitempty"`
	VerifiedBy *string            `gorm:"type:varchar(36)" json:"verified_by,omitempty"`

	// ReviewedAt/ReviewedBy - последнее итоговое решение (verified или rejected).
	// VerifiedAt/VerifiedBy заполняются только при одобрении.
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy *string    `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`
}
