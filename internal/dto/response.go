package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
)

type SessionResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProgramID         uuid.UUID  `json:"program_id"`
	BranchID          uuid.UUID  `json:"branch_id"`
	CoachID           uuid.UUID  `json:"coach_id"`
	Date              string     `json:"date"`
	DayOfWeek         string     `json:"day_of_week"`
	StartTime         string     `json:"start_time"`
	EndTime           string     `json:"end_time"`
	Facility          *string    `json:"facility,omitempty"`
	Capacity          int        `json:"capacity"`
	CurrentEnrollment int        `json:"current_enrollment"`
	IsRecurring       bool       `json:"is_recurring"`
	Cancelled         bool       `json:"cancelled"`
	CancelReason      string     `json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
}

type ValidationResponse struct {
	IsValid           bool              `json:"is_valid"`
	CoachConflicts    []SessionResponse `json:"coach_conflicts"`
	FacilityConflicts []SessionResponse `json:"facility_conflicts"`
}

type GenerateScheduleResponse struct {
	Created  int               `json:"created"`
	Failed   int               `json:"failed"`
	Sessions []SessionResponse `json:"sessions"`
}

type WaitlistEntryResponse struct {
	ID         uuid.UUID             `json:"id"`
	PlayerID   uuid.UUID             `json:"player_id"`
	ProgramID  uuid.UUID             `json:"program_id"`
	Position   int                   `json:"position"`
	Status     models.WaitlistStatus `json:"status"`
	NotifiedAt *time.Time            `json:"notified_at,omitempty"`
	ExpiresAt  *time.Time            `json:"expires_at,omitempty"`
	EnrolledAt *time.Time            `json:"enrolled_at,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

type FreezeResponse struct {
	ID                    uuid.UUID           `json:"id"`
	Title                 string              `json:"title"`
	StartDate             string              `json:"start_date"`
	EndDate               string              `json:"end_date"`
	FreezeDays            int                 `json:"freeze_days"`
	Scope                 models.FreezeScope  `json:"scope"`
	BranchID              *uuid.UUID          `json:"branch_id,omitempty"`
	ProgramID             *uuid.UUID          `json:"program_id,omitempty"`
	PlayerID              *uuid.UUID          `json:"player_id,omitempty"`
	Status                models.FreezeStatus `json:"status"`
	Applied               bool                `json:"applied"`
	SubscriptionsAffected int                 `json:"subscriptions_affected"`
	CreatedAt             time.Time           `json:"created_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToSessionResponse(s *models.TrainingSession) SessionResponse {
	return SessionResponse{
		ID:                s.ID,
		ProgramID:         s.ProgramID,
		BranchID:          s.BranchID,
		CoachID:           s.CoachID,
		Date:              s.Date.Format("2006-01-02"),
		DayOfWeek:         s.DayOfWeek,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Facility:          s.Facility,
		Capacity:          s.Capacity,
		CurrentEnrollment: s.CurrentEnrollment,
		IsRecurring:       s.IsRecurring,
		Cancelled:         s.Cancelled,
		CancelReason:      s.CancelReason,
		CancelledAt:       s.CancelledAt,
	}
}

func ToSessionResponses(sessions []models.TrainingSession) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = ToSessionResponse(&sessions[i])
	}
	return out
}

func ToWaitlistEntryResponse(e *models.WaitlistEntry) WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:         e.ID,
		PlayerID:   e.PlayerID,
		ProgramID:  e.ProgramID,
		Position:   e.Position,
		Status:     e.Status,
		NotifiedAt: e.NotifiedAt,
		ExpiresAt:  e.ExpiresAt,
		EnrolledAt: e.EnrolledAt,
		CreatedAt:  e.CreatedAt,
	}
}

func ToFreezeResponse(f *models.SubscriptionFreeze) FreezeResponse {
	return FreezeResponse{
		ID:                    f.ID,
		Title:                 f.Title,
		StartDate:             f.StartDate.Format("2006-01-02"),
		EndDate:               f.EndDate.Format("2006-01-02"),
		FreezeDays:            f.FreezeDays,
		Scope:                 f.Scope,
		BranchID:              f.BranchID,
		ProgramID:             f.ProgramID,
		PlayerID:              f.PlayerID,
		Status:                f.Status,
		Applied:               f.Applied,
		SubscriptionsAffected: f.SubscriptionsAffected,
		CreatedAt:             f.CreatedAt,
	}
}
