package models

import (
	"time"

	"github.com/google/uuid"
)

type Program struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BranchID    uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name        string    `gorm:"not null" json:"name"`
	NameAr      string    `gorm:"column:name_ar" json:"name_ar"`
	Description string    `gorm:"type:text" json:"description"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Branch   *Branch                 `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Schedule []ScheduleTemplateEntry `gorm:"foreignKey:ProgramID" json:"schedule,omitempty"`
}

// ScheduleTemplateEntry is one recurring weekly slot of a program's
// schedule. Times are zero-padded "HH:MM" so lexicographic comparison
// matches chronological order.
type ScheduleTemplateEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	DayOfWeek string    `gorm:"type:varchar(10);not null" json:"day_of_week"`
	CoachID   uuid.UUID `gorm:"type:uuid;not null" json:"coach_id"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Facility  *string   `json:"facility,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
