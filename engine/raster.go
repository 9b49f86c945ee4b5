// Package engine 实现图层掩码与合成引擎：栅格编解码、掩码代数、
// 区域掩码展开、alpha 合成与图层栈扁平化。
//
// 所有函数都是无状态的纯计算：输入缓冲不被修改，结果总是新分配的
// 缓冲，因此可以在任意多个 goroutine 中并发调用。引擎不做日志、
// 不做 I/O、不持有跨调用的引用。
package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Decode 解码 PNG/JPEG 字节流为 4 通道 NRGBA 栅格
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ToNRGBA(img), nil
}

// DecodeMask 解码字节流为单通道灰度掩码，彩色输入按亮度转换
func DecodeMask(data []byte) (*image.Gray, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ToGray(img), nil
}

// Encode 将栅格编码为 PNG 字节流。PNG 无损，与 Decode 往返像素一致。
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeMask 将掩码编码为灰度 PNG 字节流
func EncodeMask(m *image.Gray) ([]byte, error) {
	return Encode(m)
}

// Resize 用 Catmull-Rom 重采样把栅格缩放到指定尺寸
func Resize(img *image.NRGBA, width, height int) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst, nil
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, nil
}

// ResizeMask 同 Resize，作用于单通道掩码。掩码跨分辨率时必须走
// 抗锯齿重采样，最近邻会在软边缘上产生阶梯伪影。
func ResizeMask(m *image.Gray, width, height int) (*image.Gray, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := m.Bounds()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
		return dst, nil
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), m, b, xdraw.Src, nil)
	return dst, nil
}

// ToNRGBA 把任意解码结果转为原点对齐的 NRGBA 栅格
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		b := n.Bounds()
		if b.Min.X == 0 && b.Min.Y == 0 {
			return n
		}
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ToGray 把任意图像转为原点对齐的灰度掩码
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		b := g.Bounds()
		if b.Min.X == 0 && b.Min.Y == 0 {
			return g
		}
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneGray(m *image.Gray) *image.Gray {
	b := m.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}
