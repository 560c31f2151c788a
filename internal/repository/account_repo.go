package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/classifieds_server/internal/model"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(account *model.Account) error {
	return r.db.Omit(clause.Associations).Create(account).Error
}

func (r *AccountRepository) GetByID(id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByIDWithPlan 额度检查需要同时加载套餐
func (r *AccountRepository) GetByIDWithPlan(id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.Preload("Plan").Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(email string) (*model.Account, error) {
	var account model.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ExistsByEmail excludeID 为 0 时不排除任何用户
func (r *AccountRepository) ExistsByEmail(email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.Model(&model.Account{}).Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *AccountRepository) ExistsByPhone(phone string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.Model(&model.Account{}).Where("phone_number = ?", phone)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *AccountRepository) Update(account *model.Account) error {
	return r.db.Omit(clause.Associations).Save(account).Error
}

// UpdatePlan planID 为 nil 时取消套餐
func (r *AccountRepository) UpdatePlan(id int64, planID *int64) error {
	return r.db.Model(&model.Account{}).Where("id = ?", id).Update("plan_id", planID).Error
}

func (r *AccountRepository) UpdateActive(id int64, active bool) error {
	return r.db.Model(&model.Account{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *AccountRepository) List(search string, page, pageSize int) ([]model.Account, int64, error) {
	var accounts []model.Account
	var total int64

	query := r.db.Model(&model.Account{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Plan").Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&accounts).Error
	return accounts, total, err
}
