package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByName(name string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Plan{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *PlanRepository) List() ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.Order("id ASC").Find(&plans).Error
	return plans, err
}
