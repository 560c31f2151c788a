package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	quotaService   *service.QuotaService
}

func NewAccountHandler(accountService *service.AccountService, quotaService *service.QuotaService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		quotaService:   quotaService,
	}
}

// GetProfile 当前用户信息
// GET /api/v1/me
func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	info, err := h.accountService.GetProfile(userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, info)
}

// ReplaceProfile 完整更新，email 必填
// PUT /api/v1/me
func (h *AccountHandler) ReplaceProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ReplaceProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.accountService.UpdateProfile(userID, req.ToUpdate())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, info)
}

// UpdateProfile 部分更新
// PATCH /api/v1/me
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.accountService.UpdateProfile(userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, info)
}

// GetQuota 套餐额度及使用情况
// GET /api/v1/me/quota
func (h *AccountHandler) GetQuota(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	info, err := h.quotaService.GetQuotaInfo(userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, info)
}
