package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PlayerID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"player_id"`
	ProgramID uuid.UUID          `gorm:"type:uuid;not null;index" json:"program_id"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	StartDate time.Time          `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time          `gorm:"type:date;not null" json:"end_date"`
	// Notes is an append-only audit trail of freeze adjustments.
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Player  *Player  `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}
