package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Srikar1995/cloudrunway-develop/internal/validation"
)

// Response 统一成功响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
}

// PaginatedResponse 分页响应
type PaginatedResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// Success 返回成功响应
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		Code:    code,
		Message: "success",
		Data:    data,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message, detail string) {
	c.JSON(code, ErrorResponse{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}

// FieldErrors 返回字段级校验错误
func FieldErrors(c *gin.Context, code int, fields validation.FieldErrorMap) {
	c.JSON(code, ErrorResponse{
		Code:    code,
		Message: "validation failed",
		Fields:  fields,
	})
}

// Paginated 返回分页响应
func Paginated(c *gin.Context, code int, data interface{}, total int64, limit, offset int) {
	c.JSON(code, PaginatedResponse{
		Code:    code,
		Message: "success",
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}
