package utils

import "github.com/google/uuid"

// NewID 生成主键（UUID v4 字符串）
func NewID() string { return uuid.NewString() }

// IsID 只接受标准 36 位格式的 UUID
func IsID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
