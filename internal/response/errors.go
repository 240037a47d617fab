package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidOptions ErrCode = "INVALID_OPTIONS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotFound      ErrCode = "EXAM_NOT_FOUND"
	ErrExamInactive      ErrCode = "EXAM_INACTIVE"
	ErrDuplicateExamCode ErrCode = "DUPLICATE_EXAM_CODE"
	ErrAlreadyAttempted  ErrCode = "ALREADY_ATTEMPTED"
	ErrAlreadySubmitted  ErrCode = "ALREADY_SUBMITTED"
	ErrStudentNotFound   ErrCode = "STUDENT_NOT_FOUND"
	ErrResultNotFound    ErrCode = "RESULT_NOT_FOUND"
	ErrQuestionNotFound  ErrCode = "QUESTION_NOT_FOUND"
	ErrExamNotStarted    ErrCode = "EXAM_NOT_STARTED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrRequestTimeout ErrCode = "REQUEST_TIMEOUT"
	ErrInternal       ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidOptions:
		return "Multiple choice questions need at least two options, one of which is the correct answer."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotFound:
		return "Exam not found."
	case ErrExamInactive:
		return "This exam is not currently active."
	case ErrDuplicateExamCode:
		return "An exam with this code already exists."
	case ErrAlreadyAttempted:
		return "You have already attempted this exam."
	case ErrAlreadySubmitted:
		return "This exam has already been submitted."
	case ErrStudentNotFound:
		return "Student not found."
	case ErrResultNotFound:
		return "Result not found."
	case ErrQuestionNotFound:
		return "Question not found."
	case ErrExamNotStarted:
		return "Log in to the exam before performing this action."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrRequestTimeout:
		return "The request took too long to complete."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
