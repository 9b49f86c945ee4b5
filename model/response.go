package model

// Response 通用成功响应
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// FlattenResult 扁平化结果
type FlattenResult struct {
	FlattenedImage string `json:"flattened_image"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// UploadResult 上传结果
type UploadResult struct {
	ImageBase64 string `json:"image_base64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MD5         string `json:"md5"`
	Filename    string `json:"filename"`
}

// MaskResult 掩码运算结果
type MaskResult struct {
	MaskBase64 string `json:"mask_base64"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// DetectResult 本地主体检测结果
type DetectResult struct {
	Box        []int   `json:"box"` // [y_min, x_min, y_max, x_max]，千分比
	MaskBase64 string  `json:"mask_base64"`
	Confidence float64 `json:"confidence"`
}
