package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation errors: rejected before any mutation.
	ErrScoresRequired      = errors.New("both scores are required")
	ErrMatchSlotsUnfilled  = errors.New("match does not have both players assigned yet")
	ErrWinnerNotInMatch    = errors.New("winner must be one of the match players")
	ErrCommentBodyRequired = errors.New("comment body is required")

	// Invalid-state errors: the operation does not apply to the current state.
	ErrMatchNotPending  = errors.New("match is not pending")
	ErrTournamentClosed = errors.New("tournament is completed or cancelled")

	ErrRoundInvalid = errors.New("round number must be at least 1")

	ErrMatchNotFound        = errors.New("match not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrRegistrationNotFound = errors.New("player is not registered for this tournament")

	// Tournament lifecycle errors.
	ErrTournamentNameRequired            = errors.New("tournament name is required")
	ErrTournamentSportRequired           = errors.New("tournament sport is required")
	ErrTournamentNameConflict            = errors.New("tournament name already exists")
	ErrTournamentInvalidStatus           = errors.New("invalid tournament status provided")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")

	// Authentication and authorization.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)
