package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.WaitlistEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error)
	FindByProgram(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error)
	FindActiveByPlayerAndProgram(ctx context.Context, tx *gorm.DB, playerID, programID uuid.UUID) (*models.WaitlistEntry, error)
	MaxPosition(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int, error)
	FindWaiting(ctx context.Context, tx *gorm.DB, programID uuid.UUID, limit int) ([]models.WaitlistEntry, error)
	MarkNotified(ctx context.Context, tx *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.WaitlistStatus) error
	MarkEnrolled(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrolledAt time.Time) error
	FindExpired(ctx context.Context, now time.Time) ([]models.WaitlistEntry, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (r *waitlistRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *waitlistRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *waitlistRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.WaitlistEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *waitlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *waitlistRepository) FindByProgram(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitlistRepository) FindActiveByPlayerAndProgram(ctx context.Context, tx *gorm.DB, playerID, programID uuid.UUID) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := tx.WithContext(ctx).
		Where("player_id = ? AND program_id = ? AND status IN ?",
			playerID, programID,
			[]models.WaitlistStatus{models.WaitlistWaiting, models.WaitlistNotified}).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *waitlistRepository) MaxPosition(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int, error) {
	var max int
	err := tx.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("program_id = ?", programID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// FindWaiting returns up to limit waiting entries in strict join order.
func (r *waitlistRepository) FindWaiting(ctx context.Context, tx *gorm.DB, programID uuid.UUID, limit int) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := tx.WithContext(ctx).
		Preload("Parent").
		Where("program_id = ? AND status = ?", programID, models.WaitlistWaiting).
		Order("position ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitlistRepository) MarkNotified(ctx context.Context, tx *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      models.WaitlistNotified,
			"notified_at": notifiedAt,
			"expires_at":  expiresAt,
		}).Error
}

func (r *waitlistRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.WaitlistStatus) error {
	return tx.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *waitlistRepository) MarkEnrolled(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrolledAt time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      models.WaitlistEnrolled,
			"enrolled_at": enrolledAt,
		}).Error
}

func (r *waitlistRepository) FindExpired(ctx context.Context, now time.Time) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", models.WaitlistNotified, now).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
