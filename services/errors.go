package services

import (
	"errors"
	"strings"
)

// Error taxonomy shared by every service. Handlers map these onto HTTP
// statuses; repositories never import this package.
var (
	// Resource lookups
	ErrNotFound             = errors.New("requested resource not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrPersonalGameNotFound = errors.New("personal game not found")

	// Authentication and authorization
	ErrUnauthenticated        = errors.New("authentication required")
	ErrForbidden              = errors.New("operation not allowed for the current user")
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Backend failures that are safe to retry with backoff
	ErrTransient = errors.New("temporary backend failure")

	// Daily personal-game cap; surfaced apart from generic validation so the
	// client can message it specially
	ErrRateLimited = errors.New("daily personal game limit reached")
)

// ValidationError carries every violated rule from a single validation pass,
// so a caller can show all problems at once instead of fixing them one
// round-trip at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func newValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}
