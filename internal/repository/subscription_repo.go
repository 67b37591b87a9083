package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
)

// FreezeSelector is the scope predicate a freeze applies (and reverts) with.
type FreezeSelector struct {
	Scope     models.FreezeScope
	BranchID  *uuid.UUID
	ProgramID *uuid.UUID
	PlayerID  *uuid.UUID
	// EndDateFrom keeps already-finished subscriptions out of the freeze.
	EndDateFrom time.Time
}

type SubscriptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Subscription, error)
	CountEnrolled(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error)
	FindEnrolledByProgram(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error)
	FindForFreeze(ctx context.Context, tx *gorm.DB, sel FreezeSelector) ([]models.Subscription, error)
	ShiftEndDate(ctx context.Context, tx *gorm.DB, id uuid.UUID, days int, auditNote string) error
	GetDB() *gorm.DB
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	if len(ids) == 0 {
		return subs, nil
	}
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CountEnrolled derives a program's current enrollment from active
// subscriptions instead of trusting a stored counter.
func (r *subscriptionRepository) CountEnrolled(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("program_id = ? AND status = ?", programID, models.SubscriptionActive).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) FindEnrolledByProgram(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Player.Parent").
		Where("program_id = ? AND status = ?", programID, models.SubscriptionActive).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) FindForFreeze(ctx context.Context, tx *gorm.DB, sel FreezeSelector) ([]models.Subscription, error) {
	q := tx.WithContext(ctx).
		Preload("Player").
		Where("status IN ?", []models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionPending}).
		Where("end_date >= ?", sel.EndDateFrom)

	switch sel.Scope {
	case models.ScopeBranch:
		q = q.Joins("JOIN programs ON programs.id = subscriptions.program_id").
			Where("programs.branch_id = ?", *sel.BranchID)
	case models.ScopeProgram:
		q = q.Where("subscriptions.program_id = ?", *sel.ProgramID)
		if sel.PlayerID != nil {
			q = q.Where("subscriptions.player_id = ?", *sel.PlayerID)
		}
	}

	var subs []models.Subscription
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ShiftEndDate moves a subscription's end date by days (negative to revert)
// and appends the audit note to the notes trail.
func (r *subscriptionRepository) ShiftEndDate(ctx context.Context, tx *gorm.DB, id uuid.UUID, days int, auditNote string) error {
	return tx.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"end_date": gorm.Expr("end_date + ?", days),
			"notes":    gorm.Expr("CASE WHEN notes = '' THEN ? ELSE notes || E'\\n' || ? END", auditNote, auditNote),
		}).Error
}
