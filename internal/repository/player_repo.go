package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"gorm.io/gorm"
)

type PlayerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Preload("Parent").First(&player, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	if len(ids) == 0 {
		return players, nil
	}
	if err := r.db.WithContext(ctx).Preload("Parent").Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
