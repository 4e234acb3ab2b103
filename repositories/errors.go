package repositories

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")

	ErrAchievementNotFound = errors.New("achievement not found")
	ErrGrantConflict       = errors.New("achievement already granted to user")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrNewsNotFound       = errors.New("news post not found")
	ErrScheduleNotFound   = errors.New("training slot not found")

	ErrReferentRequestNotFound = errors.New("referent request not found")
)

// DefaultListLimit caps unpaginated collection reads.
const DefaultListLimit = 100
