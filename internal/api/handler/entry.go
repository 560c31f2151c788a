package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/service"
)

type EntryHandler struct {
	entryService *service.EntryService
}

func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// List 条目列表，mine=true 时返回自己的全部条目
// GET /api/v1/entries
func (h *EntryHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query dto.EntryListQuery
	if !bindQuery(c, &query) {
		return
	}

	items, total, err := h.entryService.List(userID, &query)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// Create 创建条目
// POST /api/v1/entries
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.entryService.Create(userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Entry created.", detail)
}

// Get 条目详情
// GET /api/v1/entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.entryService.Get(userID, entryID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, detail)
}

// Replace 完整更新
// PUT /api/v1/entries/:id
func (h *EntryHandler) Replace(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.entryService.Replace(userID, entryID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, detail)
}

// Patch 部分更新
// PATCH /api/v1/entries/:id
func (h *EntryHandler) Patch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.entryService.Patch(userID, entryID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, detail)
}

// Delete 删除条目
// DELETE /api/v1/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), userID, entryID); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Entry deleted.", nil)
}
