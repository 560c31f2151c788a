package model

import (
	"time"
)

type Image struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	EntryID    int64     `gorm:"index;not null" json:"entry_id"`
	Entry      *Entry    `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
	ObjectKey  string    `gorm:"size:255;not null" json:"-"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Image) TableName() string {
	return "images"
}
