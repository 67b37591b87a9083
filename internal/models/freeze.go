package models

import (
	"time"

	"github.com/google/uuid"
)

type FreezeScope string

const (
	ScopeGlobal  FreezeScope = "global"
	ScopeBranch  FreezeScope = "branch"
	ScopeProgram FreezeScope = "program"
)

type FreezeStatus string

const (
	FreezeScheduled FreezeStatus = "scheduled"
	FreezeActive    FreezeStatus = "active"
	FreezeCompleted FreezeStatus = "completed"
	FreezeCancelled FreezeStatus = "cancelled"
)

// SubscriptionFreeze pauses matching subscriptions for a date window by
// pushing their end dates forward. A player-targeted freeze is stored as
// scope=program with PlayerID set.
type SubscriptionFreeze struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title      string      `gorm:"not null" json:"title"`
	StartDate  time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time   `gorm:"type:date;not null" json:"end_date"`
	FreezeDays int         `gorm:"not null" json:"freeze_days"`
	Scope      FreezeScope `gorm:"type:varchar(10);not null" json:"scope"`
	BranchID   *uuid.UUID  `gorm:"type:uuid" json:"branch_id,omitempty"`
	ProgramID  *uuid.UUID  `gorm:"type:uuid" json:"program_id,omitempty"`
	PlayerID   *uuid.UUID  `gorm:"type:uuid" json:"player_id,omitempty"`

	Status                FreezeStatus `gorm:"type:varchar(10);not null;default:'scheduled'" json:"status"`
	Applied               bool         `gorm:"not null;default:false" json:"applied"`
	SubscriptionsAffected int          `gorm:"not null;default:0" json:"subscriptions_affected"`
	CreatedBy             *uuid.UUID   `gorm:"type:uuid" json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FreezeAdjustment records one subscription the freeze extended, snapshotted
// at apply time so cancellation reverts exactly what was changed even if the
// matching subscription set drifts afterwards.
type FreezeAdjustment struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FreezeID       uuid.UUID `gorm:"type:uuid;not null;index" json:"freeze_id"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null" json:"subscription_id"`
	DaysApplied    int       `gorm:"not null" json:"days_applied"`
	CreatedAt      time.Time `json:"created_at"`
}
