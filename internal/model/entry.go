package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Entry struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"index;not null" json:"user_id"`
	User        *Account        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  int64           `gorm:"index;not null" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	PhoneNumber string          `gorm:"size:16" json:"phone_number"`
	IsExpired   bool            `gorm:"index;not null;default:false" json:"is_expired"`
	ExpiredAt   *time.Time      `gorm:"index" json:"expired_at,omitempty"`
	Images      []Image         `gorm:"foreignKey:EntryID" json:"images,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	EditedAt    time.Time       `gorm:"autoUpdateTime" json:"edited_at"`
}

func (Entry) TableName() string {
	return "entries"
}
