package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/classifieds_server/internal/model"
)

// EntryFilter 公开列表的过滤条件
type EntryFilter struct {
	Category string
	Search   string
}

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(entry *model.Entry) error {
	return r.db.Omit(clause.Associations).Create(entry).Error
}

func (r *EntryRepository) GetByID(id int64) (*model.Entry, error) {
	var entry model.Entry
	err := r.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) CountByAccount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Entry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListVisible 公开列表，只返回未过期的条目
func (r *EntryRepository) ListVisible(filter EntryFilter, page, pageSize int) ([]model.Entry, int64, error) {
	var entries []model.Entry
	var total int64

	query := r.db.Model(&model.Entry{}).Where("is_expired = ?", false)
	if filter.Category != "" {
		query = query.Where("category_id IN (?)",
			r.db.Model(&model.Category{}).Select("id").Where("name = ?", filter.Category))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}

// ListByAccount 用户自己的条目，包含已过期的
func (r *EntryRepository) ListByAccount(userID int64, page, pageSize int) ([]model.Entry, int64, error) {
	var entries []model.Entry
	var total int64

	query := r.db.Model(&model.Entry{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}

// Update 只写可编辑字段，user_id 和 created_at 不会被修改
func (r *EntryRepository) Update(entry *model.Entry) error {
	return r.db.Model(entry).
		Select("title", "description", "price", "category_id", "phone_number", "edited_at").
		Omit(clause.Associations).
		Updates(entry).Error
}

// Delete 在同一事务中删除图片记录和条目，返回被删除图片的存储 key
func (r *EntryRepository) Delete(id int64) ([]string, error) {
	var keys []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Image{}).Where("entry_id = ?", id).Pluck("object_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&model.Image{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Entry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *EntryRepository) expirable(planID int64, cutoff time.Time) *gorm.DB {
	return r.db.Model(&model.Entry{}).
		Where("is_expired = ?", false).
		Where("created_at <= ?", cutoff).
		Where("user_id IN (?)", r.db.Model(&model.Account{}).Select("id").Where("plan_id = ?", planID))
}

// CountExpirable 统计该套餐下已到期但尚未标记的条目
func (r *EntryRepository) CountExpirable(planID int64, cutoff time.Time) (int64, error) {
	var count int64
	err := r.expirable(planID, cutoff).Count(&count).Error
	return count, err
}

// MarkExpired 把该套餐下 created_at <= cutoff 的条目标记为过期，只会从未过期变为过期
func (r *EntryRepository) MarkExpired(planID int64, cutoff, now time.Time) (int64, error) {
	result := r.expirable(planID, cutoff).UpdateColumns(map[string]interface{}{
		"is_expired": true,
		"expired_at": now,
	})
	return result.RowsAffected, result.Error
}

// ListPurgeable 过期时间早于 cutoff 的条目
func (r *EntryRepository) ListPurgeable(cutoff time.Time, limit int) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.Where("is_expired = ? AND expired_at <= ?", true, cutoff).
		Order("expired_at ASC, id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *EntryRepository) ReassignCategory(fromID, toID int64) (int64, error) {
	result := r.db.Model(&model.Entry{}).Where("category_id = ?", fromID).UpdateColumn("category_id", toID)
	return result.RowsAffected, result.Error
}
