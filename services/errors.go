package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
// Business-rule rejections that carry a reason code for the UI are NOT
// errors: they travel as eligibility.Decision values.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailRequired         = errors.New("email is required")
	ErrLocalityNameRequired  = errors.New("locality name is required")
	ErrDisciplineInvalidName = errors.New("discipline name is required")
	ErrDisciplineInvalidYearRange = errors.New("discipline birth-year range is invalid")
	ErrDisciplineInvalidCapacity  = errors.New("discipline capacities must be positive")
	ErrDisciplineInvalidGender    = errors.New("discipline gender must be MASCULINO or FEMENINO")
	ErrWindowInvalidRange         = errors.New("registration window end date must not precede start date")
	ErrGestorLocalityRequired     = errors.New("gestor accounts require a locality")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrDisciplineNameConflict = errors.New("discipline already exists for that gender")
	ErrLocalityNameConflict   = errors.New("locality name is already in use")
	ErrLocalityInUse          = errors.New("locality has teams or participants and cannot be deleted")
	ErrTeamAlreadyReviewed    = errors.New("team status is final and cannot change")

	// Authentication / authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrLocalityMismatch     = errors.New("resource belongs to another locality")

	// Entity-specific not-found
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrDisciplineNotFound  = errors.New("discipline not found")
	ErrLocalityNotFound    = errors.New("locality not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMemberNotFound      = errors.New("team member not found")
	ErrWindowNotConfigured = errors.New("registration window is not configured")

	ErrDisciplineInactive = errors.New("discipline is not active")
)
