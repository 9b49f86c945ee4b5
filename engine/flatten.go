package engine

import (
	"fmt"
	"image"
	"sort"
)

// Layer 扁平化的输入单元：一个栅格加合成参数。Order 是唯一的 z 序
// 键，相同 Order 的图层保持传入顺序。Image 为 nil 表示空占位图层，
// 扁平化时跳过。
type Layer struct {
	Image     *image.NRGBA
	Visible   bool
	Opacity   float64
	BlendMode string
	Order     int
}

// blendModes 已声明但未给出独立数学语义的混合模式标签。全部按
// source-over 合成，未知标签直接拒绝。
var blendModes = map[string]bool{
	"":         true,
	"normal":   true,
	"multiply": true,
	"screen":   true,
	"overlay":  true,
	"darken":   true,
	"lighten":  true,
}

// ValidBlendMode 报告混合模式标签是否被接受
func ValidBlendMode(mode string) bool {
	return blendModes[mode]
}

// Flatten 把一组图层按 z 序合成为一个栅格：
// 过滤不可见图层，按 Order 稳定升序排序，以底层图层为画布尺寸，
// 逐层应用不透明度后做 source-over 叠加。尺寸不一致的图层先缩放
// 到底层尺寸，保证输出栅格始终有定义。
func Flatten(layers []Layer) (*image.NRGBA, error) {
	visible := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if !l.Visible || l.Image == nil {
			continue
		}
		if !ValidBlendMode(l.BlendMode) {
			return nil, fmt.Errorf("%w: 混合模式 %q", ErrUnsupportedOperation, l.BlendMode)
		}
		visible = append(visible, l)
	}
	if len(visible) == 0 {
		return nil, ErrNoVisibleLayers
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})

	result := cloneNRGBA(visible[0].Image)
	width, height := result.Bounds().Dx(), result.Bounds().Dy()

	for _, l := range visible[1:] {
		img := ToNRGBA(l.Image)
		if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
			resized, err := Resize(img, width, height)
			if err != nil {
				return nil, err
			}
			img = resized
		}
		if l.Opacity < 1 {
			img = ApplyOpacity(img, l.Opacity)
		}
		composed, err := Composite(result, img, 0, 0, 1)
		if err != nil {
			return nil, err
		}
		result = composed
	}
	return result, nil
}
