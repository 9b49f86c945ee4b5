package engine

import (
	"image"
	"math"
)

// ApplyMask 把掩码写入图像的 alpha 通道，替换原有 alpha。
// 掩码尺寸不同时先重采样到图像分辨率；invert 时每个采样 s 取 255-s。
// 输入图像与掩码均不被修改。
func ApplyMask(img *image.NRGBA, mask *image.Gray, invert bool) (*image.NRGBA, error) {
	out := cloneNRGBA(img)
	width, height := out.Bounds().Dx(), out.Bounds().Dy()
	m, err := fitMask(mask, width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		oi := out.PixOffset(0, y)
		mi := m.PixOffset(0, y)
		for x := 0; x < width; x++ {
			s := m.Pix[mi+x]
			if invert {
				s = 255 - s
			}
			out.Pix[oi+x*4+3] = s
		}
	}
	return out, nil
}

// ExtractWithMask 把掩码覆盖的区域抠到一张同尺寸的全透明画布上。
// 掩码值作为贴图 alpha 参与：输出 alpha = min(掩码采样, 源 alpha)，
// 掩码为 0 的像素保持完全透明。
func ExtractWithMask(img *image.NRGBA, mask *image.Gray) (*image.NRGBA, error) {
	src := ToNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	m, err := fitMask(mask, width, height)
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		si := src.PixOffset(0, y)
		mi := m.PixOffset(0, y)
		for x := 0; x < width; x++ {
			s := m.Pix[mi+x]
			if s == 0 {
				continue
			}
			a := src.Pix[si+x*4+3]
			if s < a {
				a = s
			}
			copy(out.Pix[si+x*4:si+x*4+3], src.Pix[si+x*4:si+x*4+3])
			out.Pix[si+x*4+3] = a
		}
	}
	return out, nil
}

// Composite 把前景以 source-over 方式混合到背景副本的 (x, y) 偏移处。
// opacity < 1 时先把前景 alpha 按比例缩放（四舍五入到最近整数）。
// 逐通道 out = fg*fa + bg*(1-fa)，alpha 按 out_a = fa + ba*(1-fa) 累积。
// 前景越出背景边界的像素被裁剪。
func Composite(background, foreground *image.NRGBA, x, y int, opacity float64) (*image.NRGBA, error) {
	fg := foreground
	if opacity < 1 {
		fg = ApplyOpacity(foreground, opacity)
	} else {
		fg = ToNRGBA(fg)
	}
	out := cloneNRGBA(background)

	fb := fg.Bounds()
	overlap := image.Rect(x, y, x+fb.Dx(), y+fb.Dy()).Intersect(out.Bounds())
	for py := overlap.Min.Y; py < overlap.Max.Y; py++ {
		oi := out.PixOffset(overlap.Min.X, py)
		fi := fg.PixOffset(overlap.Min.X-x, py-y)
		for px := 0; px < overlap.Dx(); px++ {
			fa := int(fg.Pix[fi+px*4+3])
			if fa == 0 {
				continue
			}
			inv := 255 - fa
			for c := 0; c < 3; c++ {
				f := int(fg.Pix[fi+px*4+c])
				b := int(out.Pix[oi+px*4+c])
				out.Pix[oi+px*4+c] = uint8((f*fa + b*inv + 127) / 255)
			}
			ba := int(out.Pix[oi+px*4+3])
			out.Pix[oi+px*4+3] = uint8(fa + (ba*inv+127)/255)
		}
	}
	return out, nil
}

// ApplyOpacity 按比例缩放 alpha 通道，返回新栅格。opacity 被钳到 [0,1]。
func ApplyOpacity(img *image.NRGBA, opacity float64) *image.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	out := cloneNRGBA(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(math.Round(float64(out.Pix[i]) * opacity))
	}
	return out
}

// fitMask 把掩码规整为 width x height、原点对齐的副本
func fitMask(mask *image.Gray, width, height int) (*image.Gray, error) {
	b := mask.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return ResizeMask(mask, width, height)
	}
	return cloneGray(mask), nil
}
