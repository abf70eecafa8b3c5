package apperrors

import (
	"net/http"
)

/*
Предопределенные доменные ошибки. Сервисы возвращают их напрямую,
хендлеры отдают клиенту через HandleError.
*/

// --- Auth & Admin ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrBadSignature = New(
	CodeBadSignature,
	"webhook",
	"Invalid request signature",
	http.StatusUnauthorized,
)

// --- Verification (ABN) ---

// ErrABNNotVerified - коммит-действие требует подтвержденного ABN
var ErrABNNotVerified = New(
	CodeABNNotVerified,
	"verification",
	"A verified ABN is required for this action",
	http.StatusForbidden,
)

var ErrInvalidABN = New(
	CodeInvalidABN,
	"verification",
	"ABN must be 11 digits with a valid checksum",
	http.StatusBadRequest,
)

var ErrInvalidVerificationStatus = New(
	CodeInvalidStatus,
	"verification",
	"Status must be one of: unverified, pending, verified, rejected",
	http.StatusBadRequest,
)

// --- Capabilities ---

var ErrCapabilityDenied = New(
	CodeCapabilityDenied,
	"subscription",
	"Your current plan does not include this feature",
	http.StatusForbidden,
)

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrApplicationNotFound = New(
	CodeNotFound,
	"job",
	"Application not found",
	http.StatusNotFound,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrNotJobOwner = New(
	CodeForbidden,
	"job",
	"Only the contractor who posted this job can do that",
	http.StatusForbidden,
)

var ErrNotJobParticipant = New(
	CodeNotJobParticipant,
	"job",
	"You are not a participant of this job",
	http.StatusForbidden,
)

var ErrInvalidJobStatus = New(
	CodeInvalidJobStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"job",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrWrongRoleForAction = New(
	CodeInvalidOperation,
	"job",
	"Your account role cannot perform this action",
	http.StatusForbidden,
)

// --- Reliability reviews ---

var ErrReviewNotEligible = New(
	CodeReviewNotEligible,
	"review",
	"A reliability review can only be left after a late cancellation by a job participant",
	http.StatusForbidden,
)

var ErrReviewAlreadyExists = New(
	CodeReviewAlreadyExist,
	"review",
	"You have already reviewed this job",
	http.StatusConflict,
)
