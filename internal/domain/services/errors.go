package services

import "errors"

// Sentinel errors returned by the domain services. Controllers translate
// these into response codes with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrSelfDeactivation   = errors.New("users cannot deactivate their own account")
	ErrAccessDenied       = errors.New("access denied")

	ErrEpiTypeNotFound      = errors.New("epi type not found")
	ErrEpiTypeAlreadyExists = errors.New("epi type already exists")
	ErrCAExpiryInPast       = errors.New("ca expiry date cannot be in the past")

	ErrChecklistNotFound      = errors.New("checklist not found")
	ErrChecklistAlreadyExists = errors.New("checklist name already in use")
	ErrInvalidPeriod          = errors.New("expiry date must be after the effective date")
	ErrChecklistNotEffective  = errors.New("checklist is not currently effective")

	ErrExecutionNotFound     = errors.New("checklist execution not found")
	ErrExecutionCompleted    = errors.New("execution is already completed")
	ErrPendingItems          = errors.New("all items must be evaluated before completion")
	ErrSignatureRequired     = errors.New("a signature is required to complete the execution")
	ErrInvalidTransition     = errors.New("invalid execution status transition")

	ErrAnomalyNotFound        = errors.New("anomaly not found")
	ErrAnomalyAlreadyResolved = errors.New("anomaly is already resolved")
	ErrResolutionInvalid      = errors.New("resolution method and notes are required")

	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")

	// ErrValidationFailed wraps enum and field validation errors. Use
	// fmt.Errorf("...: %w", ErrValidationFailed) to attach detail.
	ErrValidationFailed = errors.New("validation failed")
)
