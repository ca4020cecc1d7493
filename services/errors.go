package services

import "errors"

var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrGameNotFound   = errors.New("game not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Live match state
	ErrMatchLive         = errors.New("finish the current match first")
	ErrMatchNotLive      = errors.New("match is not live")
	ErrStayChoicePending = errors.New("choose which team stays first")
	ErrNoStayChoice      = errors.New("no staying team choice is pending")
	ErrTeamNotPlaying    = errors.New("team is not on the scoreboard")
	ErrInvalidTeamChange = errors.New("team cannot be placed on this side")
	ErrNegativeValue     = errors.New("value must not be negative")

	ErrPremiumRequired = errors.New("this feature requires a subscription")
	ErrExportDisabled  = errors.New("results export is not configured")
)

// Validation codes reported in ValidationError.Message.
const (
	CodeGameNameEmpty        = "game_name_empty"
	CodeGameTimeEmpty        = "game_time_empty"
	CodeTeamNameEmpty        = "team_name_empty"
	CodeTeamQuantityMismatch = "team_quantity_mismatch"
)

// ValidationError reports the first invalid field of a request. It matches
// ErrValidationFailed with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func validationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
