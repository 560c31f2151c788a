package model

import (
	"time"
)

type Account struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:255" json:"first_name"`
	LastName     string     `gorm:"size:255" json:"last_name"`
	PhoneNumber  *string    `gorm:"size:16;uniqueIndex" json:"phone_number"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth"`
	PlanID       *int64     `gorm:"index" json:"plan_id"`
	Plan         *Plan      `gorm:"foreignKey:PlanID;constraint:OnDelete:SET NULL" json:"plan,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
