package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/service"
)

// AdminHandler 管理端接口，路由上需要 RequireStaff
type AdminHandler struct {
	planService     *service.PlanService
	categoryService *service.CategoryService
	accountService  *service.AccountService
}

func NewAdminHandler(
	planService *service.PlanService,
	categoryService *service.CategoryService,
	accountService *service.AccountService,
) *AdminHandler {
	return &AdminHandler{
		planService:     planService,
		categoryService: categoryService,
		accountService:  accountService,
	}
}

// ListPlans GET /api/v1/admin/plans
func (h *AdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List()
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, plans)
}

// CreatePlan POST /api/v1/admin/plans
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Plan created.", plan)
}

// CreateCategory POST /api/v1/admin/categories，已存在时返回现有分类
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, category)
}

// ListAccounts GET /api/v1/admin/users
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	var query dto.AccountListQuery
	if !bindQuery(c, &query) {
		return
	}

	items, total, err := h.accountService.List(&query)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// AssignPlan PUT /api/v1/admin/users/:id/plan
func (h *AdminHandler) AssignPlan(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.accountService.AssignPlan(accountID, req.PlanID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, info)
}

// SetActive PATCH /api/v1/admin/users/:id/active
func (h *AdminHandler) SetActive(c *gin.Context) {
	accountID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.accountService.SetActive(accountID, *req.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, info)
}
