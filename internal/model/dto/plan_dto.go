package dto

// PlanInfo 套餐信息
type PlanInfo struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	MaxEntries     int    `json:"max_entries"`
	MaxEntryImages int    `json:"max_entry_images"`
	DaysToExpire   int    `json:"days_to_expire"`
}

// CreatePlanRequest 管理端创建套餐
type CreatePlanRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	MaxEntries     *int   `json:"max_entries" binding:"required,min=0"`
	MaxEntryImages *int   `json:"max_entry_images" binding:"required,min=0"`
	DaysToExpire   *int   `json:"days_to_expire" binding:"required,min=0"`
}

// CategoryInfo 分类信息
type CategoryInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateCategoryRequest 管理端创建分类
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}
