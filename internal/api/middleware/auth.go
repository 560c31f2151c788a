package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/pkg/jwt"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

// ActiveChecker 账号状态判断，禁用或已删除的账号返回 false
type ActiveChecker interface {
	IsActive(userID int64) (bool, error)
}

// StaffChecker 管理端权限判断
type StaffChecker interface {
	IsStaff(userID int64) (bool, error)
}

// AccountChecker 由 service.AccountService 实现
type AccountChecker interface {
	ActiveChecker
	StaffChecker
}

// Auth JWT 认证中间件，token 有效但账号已禁用时同样拒绝
func Auth(jwtSecret string, checker ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header format.")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Given token not valid or expired.")
			c.Abort()
			return
		}

		active, err := checker.IsActive(claims.UserID)
		if err != nil {
			response.ServerError(c, "")
			c.Abort()
			return
		}
		if !active {
			response.AuthError(c, "User inactive or deleted.")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireStaff 管理端接口，需在 Auth 之后使用
func RequireStaff(checker StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		staff, err := checker.IsStaff(userID)
		if err != nil {
			response.ServerError(c, "")
			c.Abort()
			return
		}
		if !staff {
			response.PermissionError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
