package bracket

import "errors"

// Business rule rejections. State is left unchanged and the caller decides how to surface them.
var (
	ErrRegistrationClosed    = errors.New("registration closed")
	ErrDuplicateTeamName     = errors.New("team name is already in use")
	ErrInvalidTeam           = errors.New("team registration is invalid")
	ErrNotEnoughTeams        = errors.New("at least 2 teams are required to start the tournament")
	ErrTiedScore             = errors.New("scores cannot be tied")
	ErrInvalidScore          = errors.New("scores cannot be negative")
	ErrMatchAlreadyCompleted = errors.New("match result has already been submitted")
)

// Contract violations, these point at a bug in the calling collaborator.
var (
	ErrMalformedMatchID = errors.New("malformed match id")
	ErrMatchNotFound    = errors.New("match not found")
	ErrWinnerNotInMatch = errors.New("winner is not part of this match")
)

// IsRejection reports whether err is an expected business rule rejection
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrRegistrationClosed, ErrDuplicateTeamName, ErrInvalidTeam, ErrNotEnoughTeams,
		ErrTiedScore, ErrInvalidScore, ErrMatchAlreadyCompleted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
