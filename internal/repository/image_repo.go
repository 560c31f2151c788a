package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/classifieds_server/internal/model"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) CountByEntry(entryID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Image{}).Where("entry_id = ?", entryID).Count(&count).Error
	return count, err
}

// CreateBatch 一批图片要么全部写入，要么全部不写入
func (r *ImageRepository) CreateBatch(images []*model.Image) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, image := range images {
			if err := tx.Omit(clause.Associations).Create(image).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ImageRepository) ListByEntry(entryID int64) ([]model.Image, error) {
	var images []model.Image
	err := r.db.Where("entry_id = ?", entryID).Order("id ASC").Find(&images).Error
	return images, err
}

func (r *ImageRepository) GetByID(id int64) (*model.Image, error) {
	var image model.Image
	err := r.db.Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&model.Image{}).Error
}
