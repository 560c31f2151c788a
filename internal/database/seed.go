package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/model"
)

// Seed 创建默认套餐和分类，可重复执行；请求处理过程中不会再创建这些数据
func Seed(db *gorm.DB, cfg *config.Config) (*model.Plan, error) {
	def := cfg.Plans.Default
	plan := model.Plan{
		Name:           def.Name,
		MaxEntries:     def.MaxEntries,
		MaxEntryImages: def.MaxEntryImages,
		DaysToExpire:   def.DaysToExpire,
	}
	if err := db.Where("name = ?", def.Name).FirstOrCreate(&plan).Error; err != nil {
		return nil, fmt.Errorf("seed plan %q: %w", def.Name, err)
	}

	for _, name := range cfg.Categories {
		category := model.Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	return &plan, nil
}
