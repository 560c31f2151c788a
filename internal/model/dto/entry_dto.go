package dto

import (
	"github.com/shopspring/decimal"
)

// CreateEntryRequest 创建条目，category 为分类名称
type CreateEntryRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    *string          `json:"category"`
	PhoneNumber string           `json:"phone_number" binding:"required,phone"`
}

// UpdateEntryRequest PATCH 只更新提交的字段，owner 和时间戳不可修改
type UpdateEntryRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	PhoneNumber *string          `json:"phone_number" binding:"omitempty,phone"`
}

// ToUpdate PUT 复用创建请求的校验规则
func (r *CreateEntryRequest) ToUpdate() *UpdateEntryRequest {
	return &UpdateEntryRequest{
		Title:       &r.Title,
		Description: &r.Description,
		Price:       r.Price,
		Category:    r.Category,
		PhoneNumber: &r.PhoneNumber,
	}
}

// EntryListQuery 条目列表查询参数
type EntryListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Mine     bool   `form:"mine"`
}

// EntryListItem 列表项
type EntryListItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail,omitempty"`
	IsExpired bool   `json:"is_expired,omitempty"`
	CreatedAt string `json:"created_at"`
}

// EntryDetail 条目详情
type EntryDetail struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Category    string      `json:"category"`
	PhoneNumber string      `json:"phone_number"`
	IsExpired   bool        `json:"is_expired"`
	Images      []ImageInfo `json:"images"`
	CreatedAt   string      `json:"created_at"`
	EditedAt    string      `json:"edited_at"`
}

// ImageInfo 图片信息
type ImageInfo struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploaded_at"`
}

// UploadImagesResponse 批量上传结果
type UploadImagesResponse struct {
	EntryID int64       `json:"entry_id"`
	Images  []ImageInfo `json:"images"`
}
