package engine

import "errors"

// 引擎错误分类。调用方用 errors.Is 判定类别并映射为对应的 HTTP 状态，
// 引擎内部不做任何恢复或重试。
var (
	// ErrDecode 字节流不是受支持的图像编码或已损坏
	ErrDecode = errors.New("无法解码图像数据")

	// ErrInvalidDimensions 缩放目标宽高小于 1
	ErrInvalidDimensions = errors.New("目标尺寸无效")

	// ErrInsufficientInput 掩码运算需要至少 2 个输入
	ErrInsufficientInput = errors.New("掩码数量不足")

	// ErrUnsupportedOperation 未知的掩码运算或混合模式
	ErrUnsupportedOperation = errors.New("不支持的操作")

	// ErrEmptyMask 零面积的源掩码
	ErrEmptyMask = errors.New("掩码为空")

	// ErrNoVisibleLayers 扁平化时没有可见图层
	ErrNoVisibleLayers = errors.New("没有可见图层")
)
