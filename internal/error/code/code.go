package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: missing or invalid credentials.
	StatusUnauthorized = 401
	// StatusForbidden - 403: access denied.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: state conflict.
	StatusConflict = 409
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
)

// Generic error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
	// ErrForbidden - 403: insufficient permissions.
	ErrForbidden
)

// User related error codes (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: user already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: incorrect password.
	ErrUserPasswordIncorrect
	// ErrUserInactive - 401: account deactivated.
	ErrUserInactive
	// ErrUserSelfDeactivation - 400: users cannot deactivate their own account.
	ErrUserSelfDeactivation
)

// EPI type related error codes (102xxx).
const (
	// ErrEpiTypeNotFound - 404: EPI type not found.
	ErrEpiTypeNotFound int = iota + 102000
	// ErrEpiTypeAlreadyExist - 400: EPI type already exists.
	ErrEpiTypeAlreadyExist
	// ErrEpiTypeCAExpired - 400: CA certificate expiry date is in the past.
	ErrEpiTypeCAExpired
)

// Checklist related error codes (103xxx).
const (
	// ErrChecklistNotFound - 404: checklist not found.
	ErrChecklistNotFound int = iota + 103000
	// ErrChecklistAlreadyExist - 400: checklist name already in use.
	ErrChecklistAlreadyExist
	// ErrChecklistInvalidPeriod - 400: expiry date must be after effective date.
	ErrChecklistInvalidPeriod
	// ErrChecklistNotEffective - 400: checklist is not currently effective.
	ErrChecklistNotEffective
)

// Execution related error codes (104xxx).
const (
	// ErrExecutionNotFound - 404: checklist execution not found.
	ErrExecutionNotFound int = iota + 104000
	// ErrExecutionAlreadyCompleted - 409: execution already completed.
	ErrExecutionAlreadyCompleted
	// ErrExecutionPendingItems - 400: execution still has pending items.
	ErrExecutionPendingItems
	// ErrExecutionSignatureRequired - 400: completion requires a signature.
	ErrExecutionSignatureRequired
	// ErrExecutionInvalidTransition - 409: invalid execution status transition.
	ErrExecutionInvalidTransition
)

// Anomaly related error codes (105xxx).
const (
	// ErrAnomalyNotFound - 404: anomaly not found.
	ErrAnomalyNotFound int = iota + 105000
	// ErrAnomalyAlreadyResolved - 409: anomaly already resolved.
	ErrAnomalyAlreadyResolved
	// ErrAnomalyResolutionInvalid - 400: resolution method or notes missing.
	ErrAnomalyResolutionInvalid
)

// Database related error codes (106xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

// Migration related error codes (109xxx).
const (
	// ErrMigrationFailed - 500: migration failed.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: database connection failed.
	ErrConnectionFailed
)
