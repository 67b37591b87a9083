package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
)

type FreezeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error)
	List(ctx context.Context) ([]models.SubscriptionFreeze, error)
	FindOverlapping(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) ([]models.SubscriptionFreeze, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.FreezeStatus) error
	MarkApplied(ctx context.Context, tx *gorm.DB, id uuid.UUID, affected int) error
	FindRecomputable(ctx context.Context) ([]models.SubscriptionFreeze, error)
	CreateAdjustment(ctx context.Context, tx *gorm.DB, adj *models.FreezeAdjustment) error
	FindAdjustments(ctx context.Context, tx *gorm.DB, freezeID uuid.UUID) ([]models.FreezeAdjustment, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type freezeRepository struct {
	db *gorm.DB
}

func NewFreezeRepository(db *gorm.DB) FreezeRepository {
	return &freezeRepository{db: db}
}

func (r *freezeRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *freezeRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *freezeRepository) Create(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) error {
	return tx.WithContext(ctx).Create(freeze).Error
}

func (r *freezeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error) {
	var freeze models.SubscriptionFreeze
	if err := r.db.WithContext(ctx).First(&freeze, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &freeze, nil
}

func (r *freezeRepository) List(ctx context.Context) ([]models.SubscriptionFreeze, error) {
	var freezes []models.SubscriptionFreeze
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&freezes).Error; err != nil {
		return nil, err
	}
	return freezes, nil
}

// FindOverlapping returns scheduled/active freezes of the identical scope and
// selector whose closed date interval intersects the candidate's.
func (r *freezeRepository) FindOverlapping(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) ([]models.SubscriptionFreeze, error) {
	q := tx.WithContext(ctx).
		Model(&models.SubscriptionFreeze{}).
		Where("scope = ?", freeze.Scope).
		Where("status IN ?", []models.FreezeStatus{models.FreezeScheduled, models.FreezeActive}).
		Where("start_date <= ? AND end_date >= ?", freeze.EndDate, freeze.StartDate)

	for col, val := range map[string]*uuid.UUID{
		"branch_id":  freeze.BranchID,
		"program_id": freeze.ProgramID,
		"player_id":  freeze.PlayerID,
	} {
		if val != nil {
			q = q.Where(col+" = ?", *val)
		} else {
			q = q.Where(col + " IS NULL")
		}
	}

	var existing []models.SubscriptionFreeze
	if err := q.Find(&existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *freezeRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.FreezeStatus) error {
	return tx.WithContext(ctx).
		Model(&models.SubscriptionFreeze{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *freezeRepository) MarkApplied(ctx context.Context, tx *gorm.DB, id uuid.UUID, affected int) error {
	return tx.WithContext(ctx).
		Model(&models.SubscriptionFreeze{}).
		Where("id = ?", id).
		Updates(map[string]any{"applied": true, "subscriptions_affected": affected}).Error
}

// FindRecomputable returns freezes whose computed status may have drifted as
// time passed. Cancelled and completed freezes are terminal.
func (r *freezeRepository) FindRecomputable(ctx context.Context) ([]models.SubscriptionFreeze, error) {
	var freezes []models.SubscriptionFreeze
	err := r.db.WithContext(ctx).
		Where("status IN ?", []models.FreezeStatus{models.FreezeScheduled, models.FreezeActive}).
		Find(&freezes).Error
	if err != nil {
		return nil, err
	}
	return freezes, nil
}

func (r *freezeRepository) CreateAdjustment(ctx context.Context, tx *gorm.DB, adj *models.FreezeAdjustment) error {
	return tx.WithContext(ctx).Create(adj).Error
}

func (r *freezeRepository) FindAdjustments(ctx context.Context, tx *gorm.DB, freezeID uuid.UUID) ([]models.FreezeAdjustment, error) {
	var adjs []models.FreezeAdjustment
	err := tx.WithContext(ctx).
		Where("freeze_id = ?", freezeID).
		Order("created_at ASC").
		Find(&adjs).Error
	if err != nil {
		return nil, err
	}
	return adjs, nil
}
