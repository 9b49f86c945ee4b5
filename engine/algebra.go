package engine

import (
	"fmt"
	"image"
)

// MaskOp 掩码代数运算
type MaskOp string

const (
	OpUnion        MaskOp = "union"
	OpIntersection MaskOp = "intersection"
	OpSubtract     MaskOp = "subtract"
	OpXor          MaskOp = "xor"
)

// Combine 从左到右把多个掩码组合成一个，结果取第一个掩码的分辨率，
// 尺寸不同的掩码先重采样到该分辨率。逐像素语义（8 位整数精确运算）：
//
//	union:        acc = max(acc, m)
//	intersection: acc = min(acc, m)
//	subtract:     acc = clamp(acc-m, 0, 255)
//	xor:          acc = abs(acc-m)
func Combine(masks []*image.Gray, op MaskOp) (*image.Gray, error) {
	if len(masks) < 2 {
		return nil, fmt.Errorf("%w: 至少需要 2 个掩码, 实际 %d 个", ErrInsufficientInput, len(masks))
	}
	switch op {
	case OpUnion, OpIntersection, OpSubtract, OpXor:
	default:
		return nil, fmt.Errorf("%w: 掩码运算 %q", ErrUnsupportedOperation, op)
	}

	acc := cloneGray(masks[0])
	width, height := acc.Bounds().Dx(), acc.Bounds().Dy()

	for _, m := range masks[1:] {
		if m.Bounds().Dx() != width || m.Bounds().Dy() != height {
			resized, err := ResizeMask(m, width, height)
			if err != nil {
				return nil, err
			}
			m = resized
		} else {
			m = cloneGray(m)
		}
		for y := 0; y < height; y++ {
			ai := acc.PixOffset(0, y)
			mi := m.PixOffset(0, y)
			for x := 0; x < width; x++ {
				a := int(acc.Pix[ai+x])
				v := int(m.Pix[mi+x])
				switch op {
				case OpUnion:
					if v > a {
						a = v
					}
				case OpIntersection:
					if v < a {
						a = v
					}
				case OpSubtract:
					a -= v
					if a < 0 {
						a = 0
					}
				case OpXor:
					a -= v
					if a < 0 {
						a = -a
					}
				}
				acc.Pix[ai+x] = uint8(a)
			}
		}
	}
	return acc, nil
}
