package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
)

// SessionFilter narrows session listings; zero values mean "any".
type SessionFilter struct {
	ProgramID        *uuid.UUID
	BranchID         *uuid.UUID
	CoachID          *uuid.UUID
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}

type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error
	Update(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	List(ctx context.Context, filter SessionFilter) ([]models.TrainingSession, error)
	FindByCoachAndDate(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, date time.Time) ([]models.TrainingSession, error)
	FindByFacilityAndDate(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, facility string, date time.Time) ([]models.TrainingSession, error)
	SetCancelled(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, actor *uuid.UUID, at time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindDueForReminder(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error)
	SetReminderSent(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *sessionRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *sessionRepository) Create(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error {
	return tx.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Update(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error {
	return tx.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	var session models.TrainingSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]models.TrainingSession, error) {
	q := r.db.WithContext(ctx).Model(&models.TrainingSession{})
	if filter.ProgramID != nil {
		q = q.Where("program_id = ?", *filter.ProgramID)
	}
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.CoachID != nil {
		q = q.Where("coach_id = ?", *filter.CoachID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if !filter.IncludeCancelled {
		q = q.Where("cancelled = false")
	}

	var sessions []models.TrainingSession
	if err := q.Order("date ASC, start_time ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) FindByCoachAndDate(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, date time.Time) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := tx.WithContext(ctx).
		Where("coach_id = ? AND date = ? AND cancelled = false", coachID, date).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) FindByFacilityAndDate(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, facility string, date time.Time) ([]models.TrainingSession, error) {
	var sessions []models.TrainingSession
	err := tx.WithContext(ctx).
		Where("branch_id = ? AND facility = ? AND date = ? AND cancelled = false", branchID, facility, date).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) SetCancelled(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, actor *uuid.UUID, at time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.TrainingSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cancelled":     true,
			"cancel_reason": reason,
			"cancelled_by":  actor,
			"cancelled_at":  at,
		}).Error
}

func (r *sessionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&models.TrainingSession{}, "id = ?", id).Error
}

func (r *sessionRepository) FindDueForReminder(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
	flag := "reminder_24h_sent"
	if window == models.Reminder1h {
		flag = "reminder_1h_sent"
	}

	var sessions []models.TrainingSession
	err := r.db.WithContext(ctx).
		Where("date = ? AND cancelled = false AND "+flag+" = false", date).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) SetReminderSent(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error {
	flag := "reminder_24h_sent"
	if window == models.Reminder1h {
		flag = "reminder_1h_sent"
	}
	return r.db.WithContext(ctx).
		Model(&models.TrainingSession{}).
		Where("id = ?", id).
		Update(flag, true).Error
}
