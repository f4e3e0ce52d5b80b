package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/photogram/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	CodeSuccess      = 0
	CodeBadRequest   = 40000
	CodeValidation   = 40001
	CodeUnauthorized = 40100
	CodeForbidden    = 40300
	CodeNotFound     = 40400
	CodeTooMany      = 42900
	CodeInternal     = 50000
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "success", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Message: msg})
}

// ValidationFailed 表单校验失败，data.fields 为字段 -> 错误信息
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeValidation,
		Message: "validation failed",
		Data:    gin.H{"fields": fields},
	})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: CodeUnauthorized, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: CodeForbidden, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: CodeNotFound, Message: msg})
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: CodeTooMany, Message: "too many requests"})
}

// InternalError 记录错误日志，但不把内部错误细节返回给客户端
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, Response{Code: CodeInternal, Message: "internal server error"})
}
