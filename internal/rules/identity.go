// Package rules holds the marketplace access predicates: admin and ownership
// checks, ABN verification gating, plan capabilities and late-cancellation
// eligibility. Every function is pure; callers load records and supply the
// current instant.
package rules

import "tradematch_backend/internal/models"

// IsAdmin reports whether the user carries the administrator flag.
// Role strings never grant admin.
func IsAdmin(user *models.User) bool {
	return user != nil && user.IsAdmin
}

// OwnsJob reports whether user is the contractor who posted job.
// Identifier equality is the only ownership signal.
func OwnsJob(user *models.User, job *models.Job) bool {
	if user == nil || job == nil {
		return false
	}
	if user.ID == "" || job.ContractorID == "" {
		return false
	}
	return user.ID == job.ContractorID
}

// IsJobParticipant reports whether userID is the owning contractor or the
// assigned/confirmed subcontractor of job.
func IsJobParticipant(job *models.Job, userID string) bool {
	if job == nil || userID == "" {
		return false
	}
	if job.ContractorID == userID {
		return true
	}
	if job.AssignedSubcontractorID != nil && *job.AssignedSubcontractorID == userID {
		return true
	}
	return job.ConfirmedSubcontractorID != nil && *job.ConfirmedSubcontractorID == userID
}

// Counterparty returns the other participant of a job for userID: the
// subcontractor when userID is the contractor and vice versa. ok is false
// when userID is not a participant or the other side is unknown.
func Counterparty(job *models.Job, userID string) (string, bool) {
	if !IsJobParticipant(job, userID) {
		return "", false
	}
	if job.ContractorID == userID {
		if job.ConfirmedSubcontractorID != nil && *job.ConfirmedSubcontractorID != "" {
			return *job.ConfirmedSubcontractorID, true
		}
		if job.AssignedSubcontractorID != nil && *job.AssignedSubcontractorID != "" {
			return *job.AssignedSubcontractorID, true
		}
		return "", false
	}
	return job.ContractorID, true
}
