package service

import (
	"fmt"
	"image"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/engine"
	"gocv.io/x/gocv"
)

// MaskRefiner 对展开后的掩码做形态学清理：开闭运算去噪、
// 轻微膨胀加高斯平滑边缘，最后按 127 重新二值化。
type MaskRefiner struct {
	kernelSize int
}

func NewMaskRefiner(cfg *config.DetectConfig) *MaskRefiner {
	return &MaskRefiner{kernelSize: cfg.KernelSize}
}

// Refine 返回清理后的新掩码，输入不被修改
func (r *MaskRefiner) Refine(mask *image.Gray) (*image.Gray, error) {
	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("掩码转换失败: %w", err)
	}
	defer mat.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: r.kernelSize, Y: r.kernelSize})
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(mat, &opened, gocv.MorphOpen, kernel)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(opened, &closed, gocv.MorphClose, kernel)

	edgeKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 2, Y: 2})
	defer edgeKernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(closed, &dilated, edgeKernel)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(dilated, &blurred, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)

	final := gocv.NewMat()
	defer final.Close()
	gocv.Threshold(blurred, &final, 127, 255, gocv.ThresholdBinary)

	converted, err := final.ToImage()
	if err != nil {
		return nil, fmt.Errorf("掩码转换失败: %w", err)
	}
	return engine.ToGray(converted), nil
}
