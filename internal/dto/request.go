package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
)

type SessionRequest struct {
	ProgramID   uuid.UUID `json:"program_id"`
	CoachID     uuid.UUID `json:"coach_id"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Facility    *string   `json:"facility,omitempty"`
	Capacity    int       `json:"capacity"`
	IsRecurring bool      `json:"is_recurring"`
}

type ValidateSessionRequest struct {
	SessionRequest
	ExcludeSessionID *uuid.UUID `json:"exclude_session_id,omitempty"`
}

type CancelSessionRequest struct {
	Reason      string     `json:"reason"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
}

type GenerateScheduleRequest struct {
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	WeeksAhead int        `json:"weeks_ahead,omitempty"`
}

type JoinWaitlistRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

type CreateFreezeRequest struct {
	Title     string             `json:"title"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Scope     models.FreezeScope `json:"scope"`
	BranchID  *uuid.UUID         `json:"branch_id,omitempty"`
	ProgramID *uuid.UUID         `json:"program_id,omitempty"`
	PlayerID  *uuid.UUID         `json:"player_id,omitempty"`
	CreatedBy *uuid.UUID         `json:"created_by,omitempty"`
}

type RunRemindersRequest struct {
	HoursAhead int `json:"hours_ahead"`
}
