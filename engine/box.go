package engine

import (
	"encoding/json"
	"fmt"
	"image"
)

// NormalizedBox 用图像宽高的千分比表示的矩形，与上游检测/分割服务的
// 约定逐位一致：JSON 形式为 [y_min, x_min, y_max, x_max]，每个分量
// 在 [0, 1000] 闭区间内。
type NormalizedBox struct {
	YMin int
	XMin int
	YMax int
	XMax int
}

func (b NormalizedBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.YMin, b.XMin, b.YMax, b.XMax})
}

func (b *NormalizedBox) UnmarshalJSON(data []byte) error {
	var coords []int
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("box 需要 4 个坐标, 实际 %d 个", len(coords))
	}
	b.YMin, b.XMin, b.YMax, b.XMax = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Denormalize 把千分比坐标换算为像素矩形。四条边统一用整数除法
// 向零截断，保证可复现；退化矩形被钳到最小 1x1，使后续缩放始终
// 有定义。
func (b NormalizedBox) Denormalize(width, height int) image.Rectangle {
	yMin := b.YMin * height / 1000
	xMin := b.XMin * width / 1000
	yMax := b.YMax * height / 1000
	xMax := b.XMax * width / 1000
	if xMax-xMin < 1 {
		xMax = xMin + 1
	}
	if yMax-yMin < 1 {
		yMax = yMin + 1
	}
	return image.Rect(xMin, yMin, xMax, yMax)
}

// MaskFromBox 生成一个矩形实心掩码：box 内为 255，其余为 0。
// 检测器返回空掩码时调用方可用它作兜底。
func MaskFromBox(width, height int, box NormalizedBox) (*image.Gray, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	mask := image.NewGray(image.Rect(0, 0, width, height))
	rect := box.Denormalize(width, height).Intersect(mask.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(rect.Min.X, y):mask.PixOffset(rect.Max.X, y)]
		for i := range row {
			row[i] = 255
		}
	}
	return mask, nil
}
