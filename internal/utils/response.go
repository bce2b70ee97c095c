package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessWithMessage 成功响应, extra 中的字段与 success/message 平铺
func SuccessWithMessage(c *gin.Context, message string, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// FailResponse 失败响应 {success:false, message}
func FailResponse(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	FailResponse(c, http.StatusBadRequest, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	FailResponse(c, http.StatusNotFound, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	FailResponse(c, http.StatusInternalServerError, message)
}

// TooManyRequests 429错误
func TooManyRequests(c *gin.Context, message string) {
	FailResponse(c, http.StatusTooManyRequests, message)
}

// ErrorResponse 查询接口的错误格式 {error}
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
