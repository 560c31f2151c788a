package model

// Plan 套餐，限制用户可发布的条目数、每个条目的图片数以及条目有效期
type Plan struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	MaxEntries     int    `gorm:"not null;default:3" json:"max_entries"`
	MaxEntryImages int    `gorm:"not null;default:4" json:"max_entry_images"`
	DaysToExpire   int    `gorm:"not null;default:30" json:"days_to_expire"`
}

func (Plan) TableName() string {
	return "plans"
}
