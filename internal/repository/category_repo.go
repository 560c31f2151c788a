package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FirstOrCreate 仅供管理端和维护命令使用
func (r *CategoryRepository) FirstOrCreate(name string) (*model.Category, error) {
	category := model.Category{Name: name}
	err := r.db.Where("name = ?", name).FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
