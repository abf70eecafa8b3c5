package rules

import (
	"strings"

	"tradematch_backend/internal/models"
)

// Action is a user-initiated operation checked against the verification gate.
type Action string

const (
	ActionBrowse Action = "browse"
	ActionView   Action = "view"
	ActionSearch Action = "search"
	ActionList   Action = "list"

	ActionCreate  Action = "create"
	ActionPublish Action = "publish"
	ActionApply   Action = "apply"
	ActionConfirm Action = "confirm"
	ActionAccept  Action = "accept"
	ActionAward   Action = "award"
)

// IsVerified reports whether the user's ABN verification is valid. Any one
// of the status, timestamp or flag signals is enough.
func IsVerified(user *models.User) bool {
	if user == nil {
		return false
	}
	v := user.Verification
	if strings.EqualFold(strings.TrimSpace(string(v.Status)), string(models.VerificationVerified)) {
		return true
	}
	if v.VerifiedAt != nil && !v.VerifiedAt.IsZero() {
		return true
	}
	return v.Verified
}

// RequiresVerificationForAction classifies action as browse (never gated)
// or commit (gated). Unknown actions are gated.
func RequiresVerificationForAction(action Action) bool {
	switch action {
	case ActionBrowse, ActionView, ActionSearch, ActionList:
		return false
	default:
		return true
	}
}

// CanPerform combines the gate with the user's verification state.
func CanPerform(user *models.User, action Action) bool {
	if !RequiresVerificationForAction(action) {
		return true
	}
	return IsVerified(user)
}
