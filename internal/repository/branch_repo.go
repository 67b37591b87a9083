package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BranchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Branch, error)
}

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// FindByIDForUpdate locks the branch row within the given transaction.
// Facility conflict checks lock the branch because facilities are named
// slots under a branch, not rows of their own.
func (r *branchRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}
