package models

import (
	"time"

	"github.com/google/uuid"
)

type TrainingSession struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProgramID         uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	BranchID          uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`
	CoachID           uuid.UUID `gorm:"type:uuid;not null;index:idx_sessions_coach_date" json:"coach_id"`
	Date              time.Time `gorm:"type:date;not null;index:idx_sessions_coach_date" json:"date"`
	DayOfWeek         string    `gorm:"type:varchar(10);not null" json:"day_of_week"`
	StartTime         string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime           string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Facility          *string   `json:"facility,omitempty"`
	Capacity          int       `gorm:"not null;default:0" json:"capacity"`
	CurrentEnrollment int       `gorm:"not null;default:0" json:"current_enrollment"`
	IsRecurring       bool      `gorm:"not null;default:false" json:"is_recurring"`

	Cancelled    bool       `gorm:"not null;default:false" json:"cancelled"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledBy  *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	Reminder24hSent bool `gorm:"not null;default:false" json:"reminder_24h_sent"`
	Reminder1hSent  bool `gorm:"not null;default:false" json:"reminder_1h_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// ReminderWindow selects which of the session's reminder flags a sweep
// operates on.
type ReminderWindow int

const (
	Reminder24h ReminderWindow = 24
	Reminder1h  ReminderWindow = 1
)
