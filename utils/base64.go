package utils

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64Image 解码 base64 图像数据，兼容带 data URL 前缀
// （data:image/png;base64,...）的输入
func DecodeBase64Image(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

// EncodeBase64Image 把图像字节编码为 base64 字符串
func EncodeBase64Image(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
