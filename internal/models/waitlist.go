package models

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistNotified  WaitlistStatus = "notified"
	WaitlistEnrolled  WaitlistStatus = "enrolled"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

type WaitlistEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlayerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"player_id"`
	ProgramID uuid.UUID      `gorm:"type:uuid;not null;index" json:"program_id"`
	BranchID  uuid.UUID      `gorm:"type:uuid;not null" json:"branch_id"`
	ParentID  uuid.UUID      `gorm:"type:uuid;not null" json:"parent_id"`
	Position  int            `gorm:"not null" json:"position"`
	Status    WaitlistStatus `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`

	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Player *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Parent *User   `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}
