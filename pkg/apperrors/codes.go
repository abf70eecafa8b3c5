package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие коды ошибок
const (
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
	CodeBadSignature ErrorCode = "BAD_SIGNATURE"
)

// Доменные коды отказов правил доступа
const (
	CodeABNNotVerified     ErrorCode = "ABN_NOT_VERIFIED"
	CodeCapabilityDenied   ErrorCode = "CAPABILITY_DENIED"
	CodeNotJobParticipant  ErrorCode = "NOT_JOB_PARTICIPANT"
	CodeReviewNotEligible  ErrorCode = "REVIEW_NOT_ELIGIBLE"
	CodeInvalidJobStatus   ErrorCode = "INVALID_JOB_STATUS"
	CodeInvalidABN         ErrorCode = "INVALID_ABN"
	CodeReviewAlreadyExist ErrorCode = "REVIEW_ALREADY_EXISTS"
)
