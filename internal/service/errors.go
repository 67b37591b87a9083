package service

import (
	"errors"
	"fmt"

	"github.com/sportsacademy/academy-backend/internal/models"
)

var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrBranchNotFound       = errors.New("branch not found")
	ErrCoachNotFound        = errors.New("coach not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrFreezeNotFound       = errors.New("freeze not found")
	ErrWaitlistNotFound     = errors.New("waitlist entry not found")
	ErrEmptySchedule        = errors.New("program has no schedule template")
	ErrAlreadyOnWaitlist    = errors.New("player already has an active waitlist entry for this program")
	ErrSessionCancelled     = errors.New("session is already cancelled")
	ErrFreezeNotCancellable = errors.New("freeze can no longer be cancelled")
)

// ValidationError marks caller input the operation refuses to act on.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError rejects a session draft and carries both conflict lists so
// the caller can show exactly which sessions collide.
type ConflictError struct {
	CoachConflicts    []models.TrainingSession
	FacilityConflicts []models.TrainingSession
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session conflicts: %d coach, %d facility",
		len(e.CoachConflicts), len(e.FacilityConflicts))
}
