package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/service"
)

type AuthHandler struct {
	accountService *service.AccountService
	authService    *service.AuthService
}

func NewAuthHandler(accountService *service.AccountService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		authService:    authService,
	}
}

// Register 注册
// POST /api/v1/users
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.accountService.Register(&req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "User registered.", info)
}

// Login 登录，返回 bearer token
// POST /api/v1/token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, token)
}
