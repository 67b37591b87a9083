package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotifySessionCreated     NotificationType = "session_created"
	NotifySessionUpdated     NotificationType = "session_updated"
	NotifySessionRescheduled NotificationType = "session_rescheduled"
	NotifySessionCancelled   NotificationType = "session_cancelled"
	NotifySessionReminder    NotificationType = "session_reminder"
	NotifyWaitlistSpot       NotificationType = "waitlist_spot"
	NotifyFreezeCreated      NotificationType = "freeze_created"
	NotifyFreezeCancelled    NotificationType = "freeze_cancelled"
)

type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	TitleAr   string           `gorm:"column:title_ar" json:"title_ar"`
	Message   string           `gorm:"type:text" json:"message"`
	MessageAr string           `gorm:"column:message_ar;type:text" json:"message_ar"`
	Data      datatypes.JSON   `json:"data,omitempty"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	// DeliveredAt is set from SMS gateway delivery receipts.
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
