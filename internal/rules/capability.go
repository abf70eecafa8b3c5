package rules

import "tradematch_backend/internal/models"

// Capability is a premium feature name.
type Capability string

const (
	CapabilityPostTender         Capability = "post_tender"
	CapabilityAdditionalTrades   Capability = "additional_trades"
	CapabilitySearchFromLocation Capability = "search_from_location"
)

// AllCapabilities lists every capability known to HasCapability.
var AllCapabilities = []Capability{
	CapabilityPostTender,
	CapabilityAdditionalTrades,
	CapabilitySearchFromLocation,
}

// Entitlement is the resolved plan state for one user.
type Entitlement struct {
	Role                     models.UserRole           `json:"role"`
	IsAdmin                  bool                      `json:"is_admin"`
	PlanID                   models.PlanID             `json:"plan_id"`
	Status                   models.SubscriptionStatus `json:"subscription_status"`
	AdditionalTradesUnlocked bool                      `json:"additional_trades_unlocked"`
}

// EntitlementOf builds an Entitlement from a user record.
func EntitlementOf(user *models.User) Entitlement {
	if user == nil {
		return Entitlement{}
	}
	return Entitlement{
		Role:                     user.Role,
		IsAdmin:                  user.IsAdmin,
		PlanID:                   user.PlanID,
		Status:                   user.SubscriptionStatus,
		AdditionalTradesUnlocked: user.AdditionalTradesUnlocked,
	}
}

// CanUserPostTenders: contractors always; subcontractors only with an active
// SUBCONTRACTOR_PRO_10 or ALL_ACCESS_PRO_26 plan.
func CanUserPostTenders(role models.UserRole, plan models.PlanID, status models.SubscriptionStatus) bool {
	switch role {
	case models.UserRoleContractor:
		return true
	case models.UserRoleSubcontractor:
		if status != models.SubscriptionActive {
			return false
		}
		return plan == models.PlanSubcontractorPro10 || plan == models.PlanAllAccessPro26
	default:
		return false
	}
}

// HasCapability evaluates the capability table for e. Anything without a
// matching rule is denied.
func HasCapability(e Entitlement, c Capability) bool {
	switch c {
	case CapabilityPostTender:
		return e.IsAdmin || CanUserPostTenders(e.Role, e.PlanID, e.Status)
	case CapabilityAdditionalTrades:
		if e.AdditionalTradesUnlocked {
			return true
		}
		return e.Status == models.SubscriptionActive && isPremiumFor(e.Role, e.PlanID)
	case CapabilitySearchFromLocation:
		return e.Status == models.SubscriptionActive && e.PlanID != "" && e.PlanID != models.PlanFree
	default:
		return false
	}
}

// Capabilities returns the full capability map for e.
func Capabilities(e Entitlement) map[Capability]bool {
	out := make(map[Capability]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		out[c] = HasCapability(e, c)
	}
	return out
}

func isPremiumFor(role models.UserRole, plan models.PlanID) bool {
	if plan == models.PlanAllAccessPro26 {
		return true
	}
	switch role {
	case models.UserRoleContractor:
		return plan == models.PlanContractorPro10
	case models.UserRoleSubcontractor:
		return plan == models.PlanSubcontractorPro10
	}
	return false
}
