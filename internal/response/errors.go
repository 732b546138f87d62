package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrRateLimitExceeded  ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam paper ────────────────────────────────────────────────────
	ErrSessionNotFound        ErrCode = "SESSION_NOT_FOUND"
	ErrSessionConflict        ErrCode = "SESSION_CONFLICT"
	ErrNoQuestionsSelected    ErrCode = "NO_QUESTIONS_SELECTED"
	ErrRepositoryUnavailable  ErrCode = "REPOSITORY_UNAVAILABLE"
	ErrUnknownWebSocketAction ErrCode = "UNKNOWN_ACTION"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrRateLimitExceeded:
		return "Too many attempts. Please wait a moment and try again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Exam paper ────────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "Editing session not found or expired."
	case ErrSessionConflict:
		return "The editing session was changed by another request. Please try again."
	case ErrNoQuestionsSelected:
		return "Select at least one question to generate the exam."
	case ErrRepositoryUnavailable:
		return "The question bank could not be loaded."
	case ErrUnknownWebSocketAction:
		return "Unknown action."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	case ErrServiceUnavailable:
		return "A required dependency is unavailable."
	default:
		return "An unexpected error occurred."
	}
}
