package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email,max=255"`
	Password    string  `json:"password" binding:"required,min=5,max=128"`
	FirstName   string  `json:"first_name" binding:"omitempty,max=255,alphaspace"`
	LastName    string  `json:"last_name" binding:"omitempty,max=255,alphaspace"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

// LoginRequest 登录请求，密码为空时统一返回认证失败
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// ReplaceProfileRequest PUT /me，email 必填
type ReplaceProfileRequest struct {
	Email       *string `json:"email" binding:"required,email,max=255"`
	Password    *string `json:"password" binding:"omitempty,min=5,max=128"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=255,alphaspace"`
	LastName    *string `json:"last_name" binding:"omitempty,max=255,alphaspace"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateProfileRequest PATCH /me，只更新提交的字段
type UpdateProfileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Password    *string `json:"password" binding:"omitempty,min=5,max=128"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=255,alphaspace"`
	LastName    *string `json:"last_name" binding:"omitempty,max=255,alphaspace"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

// ToUpdate PUT 与 PATCH 共用同一套更新逻辑
func (r *ReplaceProfileRequest) ToUpdate() *UpdateProfileRequest {
	return &UpdateProfileRequest{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth,
	}
}

// AccountInfo 用户信息
type AccountInfo struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber *string   `json:"phone_number"`
	DateOfBirth *string   `json:"date_of_birth"`
	Plan        *PlanInfo `json:"plan"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// QuotaInfo 套餐额度及使用情况
type QuotaInfo struct {
	Plan           *PlanInfo `json:"plan"`
	EntriesUsed    int64     `json:"entries_used"`
	EntriesLeft    int64     `json:"entries_left"`
	MaxEntryImages int       `json:"max_entry_images"`
	DaysToExpire   int       `json:"days_to_expire"`
}

// AccountListQuery 管理端用户列表
type AccountListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
}

// AssignPlanRequest 管理端分配套餐，plan_id 为空表示取消套餐
type AssignPlanRequest struct {
	PlanID *int64 `json:"plan_id"`
}

// SetActiveRequest 管理端启用/禁用用户
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
