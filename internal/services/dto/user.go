package dto

import "time"

// CapabilitiesResponse - что открыто пользователю на текущем плане
type CapabilitiesResponse struct {
	UserID             string          `json:"user_id"`
	PlanID             string          `json:"plan_id"`
	SubscriptionStatus string          `json:"subscription_status"`
	Capabilities       map[string]bool `json:"capabilities"`
}

type ReliabilitySummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type MeResponse struct {
	ID                 string               `json:"id"`
	Email              string               `json:"email"`
	DisplayName        string               `json:"display_name"`
	Role               string               `json:"role"`
	IsAdmin            bool                 `json:"is_admin"`
	Verification       VerificationResponse `json:"verification"`
	PlanID             string               `json:"plan_id"`
	SubscriptionStatus string               `json:"subscription_status"`
	PrimaryTrade       string               `json:"primary_trade,omitempty"`
	AdditionalTrades   []string             `json:"additional_trades,omitempty"`
	Website            string               `json:"website,omitempty"`
	Capabilities       map[string]bool      `json:"capabilities"`
	Reliability        ReliabilitySummary   `json:"reliability"`
	CreatedAt          time.Time            `json:"created_at"`
}
