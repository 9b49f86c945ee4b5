package utils

import (
	"github.com/google/uuid"
)

// GenerateID 生成项目/图层使用的 UUID
func GenerateID() string {
	return uuid.NewString()
}
