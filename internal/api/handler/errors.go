package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/classifieds_server/internal/api/middleware"
	"github.com/qs3c/classifieds_server/internal/pkg/response"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/service"
)

// writeError 把 service 层错误映射为统一响应，未知错误交给请求日志记录
func writeError(c *gin.Context, err error) {
	var fe validate.FieldErrors
	var qe *service.QuotaError

	switch {
	case errors.As(err, &fe):
		response.ValidationError(c, fe)
	case errors.As(err, &qe):
		response.QuotaError(c, qe.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.ValidationError(c, validate.Field(validate.NonField, err.Error()))
	case errors.Is(err, service.ErrNoImages):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		response.NotFoundError(c, "")
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}

// bindJSON 解析请求体，失败时直接写入字段错误
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.ValidationError(c, validate.FromBinding(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.ValidationError(c, validate.FromBinding(err))
		return false
	}
	return true
}

// pathID 解析路径中的数字 ID，非法 ID 视为不存在
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.NotFoundError(c, "")
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
	}
	return userID, ok
}
