package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List 分类列表
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, items)
}
