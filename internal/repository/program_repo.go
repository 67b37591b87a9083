package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgramRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Program, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Program, error)
	FindWithSchedule(ctx context.Context, id uuid.UUID) (*models.Program, error)
}

type programRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// FindByIDForUpdate acquires a row-level lock on the program within the given
// transaction, serializing concurrent waitlist promotion and enrollment.
func (r *programRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Program, error) {
	var program models.Program
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&program, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) FindWithSchedule(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).
		Preload("Schedule", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&program, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}
