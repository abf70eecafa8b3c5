package models

import "strings"

type UserRole string
type VerificationStatus string
type JobStatus string
type JobKind string
type PlanID string
type SubscriptionStatus string
type ApplicationStatus string
type AuditAction string

const (
	UserRoleContractor    UserRole = "contractor"
	UserRoleSubcontractor UserRole = "subcontractor"

	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"

	JobStatusOpen            JobStatus = "open"
	JobStatusPendingApproval JobStatus = "pending_approval"
	JobStatusAccepted        JobStatus = "accepted"
	JobStatusConfirmed       JobStatus = "confirmed"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusCancelled       JobStatus = "cancelled"
	JobStatusClosed          JobStatus = "closed"

	JobKindJob    JobKind = "job"
	JobKindTender JobKind = "tender"

	PlanFree               PlanID = "FREE"
	PlanContractorPro10    PlanID = "CONTRACTOR_PRO_10"
	PlanSubcontractorPro10 PlanID = "SUBCONTRACTOR_PRO_10"
	PlanAllAccessPro26     PlanID = "ALL_ACCESS_PRO_26"

	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"

	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"

	AuditVerificationDecision AuditAction = "verification_decision"
	AuditABNSubmitted         AuditAction = "abn_submitted"
	AuditJobCancelled         AuditAction = "job_cancelled"
	AuditSubscriptionChanged  AuditAction = "subscription_changed"
	AuditUserSynced           AuditAction = "user_synced"
)

// ParseUserRole приводит строку из внешнего источника к UserRole.
// Регистр и пробелы игнорируются; неизвестные значения дают ok=false.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case UserRoleContractor:
		return UserRoleContractor, true
	case UserRoleSubcontractor:
		return UserRoleSubcontractor, true
	default:
		return "", false
	}
}

// ParseVerificationStatus принимает только четыре допустимых статуса (без учета регистра)
func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch v := VerificationStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return v, true
	default:
		return "", false
	}
}

// IsTerminal - итоговое решение ревьюера
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationVerified || s == VerificationRejected
}

func ParseJobStatus(s string) (JobStatus, bool) {
	switch v := JobStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case JobStatusOpen, JobStatusPendingApproval, JobStatusAccepted, JobStatusConfirmed,
		JobStatusCompleted, JobStatusCancelled, JobStatusClosed:
		return v, true
	default:
		return "", false
	}
}

func ParsePlanID(s string) (PlanID, bool) {
	switch v := PlanID(strings.ToUpper(strings.TrimSpace(s))); v {
	case PlanFree, PlanContractorPro10, PlanSubcontractorPro10, PlanAllAccessPro26:
		return v, true
	default:
		return "", false
	}
}

// ParseSubscriptionStatus: всё, что не ACTIVE, считается INACTIVE
func ParseSubscriptionStatus(s string) SubscriptionStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(SubscriptionActive)) {
		return SubscriptionActive
	}
	return SubscriptionInactive
}
