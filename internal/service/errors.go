package service

import (
	"errors"
	"strings"

	"github.com/Srikar1995/cloudrunway-develop/internal/validation"
)

var (
	// ErrOpportunityNotFound 商机不存在
	ErrOpportunityNotFound = errors.New("opportunity not found")
	// ErrInvalidStatus 非法的状态取值
	ErrInvalidStatus = errors.New("invalid termination status")
)

// ValidationError 字段校验失败
// Fields 携带每个失败字段的状态与提示文本
type ValidationError struct {
	Fields validation.FieldErrorMap
}

func (e *ValidationError) Error() string {
	msgs := e.Fields.Messages()
	if len(msgs) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError 由字段结果构造校验错误
func NewValidationError(fields validation.FieldErrorMap) *ValidationError {
	return &ValidationError{Fields: fields}
}
