package engine

import (
	"fmt"
	"image"
)

// Expand 把只覆盖包围盒内部的小掩码重建为整幅图像坐标系下的掩码。
//
// 步骤：反归一化 box 到像素坐标，小掩码重采样到盒子尺寸，之后按
// 127 阈值二值化，最后贴到全零画布的 (x_min, y_min) 处。二值化必须
// 放在重采样之后：对已二值化的掩码重采样会在边缘重新引入灰阶，而
// 对模型输出的连续掩码重采样再取阈值不会。盒子越出画布时贴图被
// 裁剪而不报错。
func Expand(small *image.Gray, origWidth, origHeight int, box NormalizedBox) (*image.Gray, error) {
	if origWidth < 1 || origHeight < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, origWidth, origHeight)
	}
	sb := small.Bounds()
	if sb.Dx() < 1 || sb.Dy() < 1 {
		return nil, fmt.Errorf("%w: 源掩码 %dx%d", ErrEmptyMask, sb.Dx(), sb.Dy())
	}

	rect := box.Denormalize(origWidth, origHeight)
	resized, err := ResizeMask(small, rect.Dx(), rect.Dy())
	if err != nil {
		return nil, err
	}
	for i, v := range resized.Pix {
		if v > 127 {
			resized.Pix[i] = 255
		} else {
			resized.Pix[i] = 0
		}
	}

	full := image.NewGray(image.Rect(0, 0, origWidth, origHeight))
	paste := rect.Intersect(full.Bounds())
	for y := paste.Min.Y; y < paste.Max.Y; y++ {
		src := resized.PixOffset(paste.Min.X-rect.Min.X, y-rect.Min.Y)
		dst := full.PixOffset(paste.Min.X, y)
		copy(full.Pix[dst:dst+paste.Dx()], resized.Pix[src:src+paste.Dx()])
	}
	return full, nil
}
