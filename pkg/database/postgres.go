package database

import (
	"log"

	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Player{},
		&models.Program{},
		&models.ScheduleTemplateEntry{},
		&models.TrainingSession{},
		&models.Subscription{},
		&models.WaitlistEntry{},
		&models.SubscriptionFreeze{},
		&models.FreezeAdjustment{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// One live waitlist entry per (program, player); terminal entries keep
	// history without blocking a rejoin.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_waitlist_active
		ON waitlist_entries (program_id, player_id)
		WHERE status IN ('waiting', 'notified')
	`)

	// Backstop for the serialized conflict check: identical coach slots can
	// never coexist even if two writers slip past validation.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_session_coach_slot
		ON training_sessions (coach_id, date, start_time)
		WHERE cancelled = false
	`)

	// Positions are assigned monotonically per program and never reused, so
	// a duplicate here means serialization was broken.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_waitlist_position
		ON waitlist_entries (program_id, position)
	`)

	return db
}
