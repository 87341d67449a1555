package code

// codeMessageMap maps error codes to human readable messages
var codeMessageMap = map[int]string{
	// Generic
	ErrSuccess:         "Success",
	ErrUnknown:         "Unknown error",
	ErrBind:            "Invalid request body",
	ErrValidation:      "Request validation failed",
	ErrTokenInvalid:    "Invalid authentication token",
	ErrTooManyRequests: "Too many requests",
	ErrForbidden:       "Insufficient permissions",

	// Users
	ErrUserNotFound:          "User not found",
	ErrUserAlreadyExist:      "User already exists",
	ErrUserPasswordIncorrect: "Incorrect password",
	ErrUserInactive:          "Account is deactivated",
	ErrUserSelfDeactivation:  "Users cannot deactivate their own account",

	// EPI types
	ErrEpiTypeNotFound:     "EPI type not found",
	ErrEpiTypeAlreadyExist: "EPI type already exists",
	ErrEpiTypeCAExpired:    "CA certificate expiry date cannot be in the past",

	// Checklists
	ErrChecklistNotFound:      "Checklist not found",
	ErrChecklistAlreadyExist:  "A checklist with this name already exists",
	ErrChecklistInvalidPeriod: "Expiry date must be after the effective date",
	ErrChecklistNotEffective:  "Checklist is not currently effective",

	// Executions
	ErrExecutionNotFound:          "Checklist execution not found",
	ErrExecutionAlreadyCompleted:  "Checklist execution is already completed",
	ErrExecutionPendingItems:      "All items must be evaluated before completion",
	ErrExecutionSignatureRequired: "A signature is required to complete the execution",
	ErrExecutionInvalidTransition: "Invalid execution status transition",

	// Anomalies
	ErrAnomalyNotFound:          "Anomaly not found",
	ErrAnomalyAlreadyResolved:   "Anomaly is already resolved",
	ErrAnomalyResolutionInvalid: "Resolution method and notes are required",

	// Database
	ErrDatabase:       "Database error",
	ErrRecordNotFound: "Record not found",

	// Migration
	ErrMigrationFailed:  "Database migration failed",
	ErrConnectionFailed: "Database connection failed",
}

// codeStatusMap maps error codes to HTTP status codes
var codeStatusMap = map[int]int{
	// Generic
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrForbidden:       StatusForbidden,

	// Users
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserInactive:          StatusUnauthorized,
	ErrUserSelfDeactivation:  StatusBadRequest,

	// EPI types
	ErrEpiTypeNotFound:     StatusNotFound,
	ErrEpiTypeAlreadyExist: StatusBadRequest,
	ErrEpiTypeCAExpired:    StatusBadRequest,

	// Checklists
	ErrChecklistNotFound:      StatusNotFound,
	ErrChecklistAlreadyExist:  StatusBadRequest,
	ErrChecklistInvalidPeriod: StatusBadRequest,
	ErrChecklistNotEffective:  StatusBadRequest,

	// Executions
	ErrExecutionNotFound:          StatusNotFound,
	ErrExecutionAlreadyCompleted:  StatusConflict,
	ErrExecutionPendingItems:      StatusBadRequest,
	ErrExecutionSignatureRequired: StatusBadRequest,
	ErrExecutionInvalidTransition: StatusConflict,

	// Anomalies
	ErrAnomalyNotFound:          StatusNotFound,
	ErrAnomalyAlreadyResolved:   StatusConflict,
	ErrAnomalyResolutionInvalid: StatusBadRequest,

	// Database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// Migration
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
