package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyID ID 为空
	ErrEmptyID = errors.New("ID cannot be empty")
	// ErrIDTooLong ID 超长
	ErrIDTooLong = errors.New("ID is too long")
	// ErrInvalidIDFormat ID 格式非法
	ErrInvalidIDFormat = errors.New("ID contains invalid characters")
)

// idPattern ID 允许的字符集
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxIDLength = 64

// ValidateID 校验资源 ID
// 终止请求与附件 ID 为 UUID 或带前缀的短 ID
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyID
	}
	if len(id) > maxIDLength {
		return ErrIDTooLong
	}
	if !idPattern.MatchString(id) {
		return ErrInvalidIDFormat
	}
	return nil
}

// SanitizeString 清理用户输入中的控制字符
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
