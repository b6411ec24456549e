package repository

import (
	"block-builder-backend/internal/models"

	"gorm.io/gorm"
)

type BlockConfigRepository interface {
	Create(block *models.BlockConfig) error
	Update(block *models.BlockConfig) error
	Delete(id uint) error
	GetByID(id uint) (*models.BlockConfig, error)
	GetByUser(userID uint) ([]models.BlockConfig, error)
	CountByUser(userID uint) (int64, error)
}

type blockConfigRepository struct {
	db *gorm.DB
}

func NewBlockConfigRepository(db *gorm.DB) BlockConfigRepository {
	return &blockConfigRepository{db: db}
}

func (r *blockConfigRepository) Create(block *models.BlockConfig) error {
	return r.db.Create(block).Error
}

func (r *blockConfigRepository) Update(block *models.BlockConfig) error {
	return r.db.Save(block).Error
}

func (r *blockConfigRepository) Delete(id uint) error {
	return r.db.Delete(&models.BlockConfig{}, id).Error
}

func (r *blockConfigRepository) GetByID(id uint) (*models.BlockConfig, error) {
	var block models.BlockConfig
	if err := r.db.First(&block, id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// GetByUser returns the user's blocks, most recently updated first.
func (r *blockConfigRepository) GetByUser(userID uint) ([]models.BlockConfig, error) {
	var blocks []models.BlockConfig
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&blocks).Error
	return blocks, err
}

func (r *blockConfigRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.BlockConfig{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
