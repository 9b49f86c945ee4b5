package service

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/utils"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// SubjectDetector 基于显著性分析给出主体包围盒建议。这只是外部
// 检测/分割服务之外的本地辅助：输出走同一套千分比坐标契约。
type SubjectDetector struct {
	maxDim       int
	kernelSize   int
	semaphore    chan struct{}
	queueTimeout time.Duration
}

func NewSubjectDetector(cfg *config.DetectConfig) *SubjectDetector {
	return &SubjectDetector{
		maxDim:       cfg.MaxDim,
		kernelSize:   cfg.KernelSize,
		semaphore:    make(chan struct{}, cfg.MaxConcurrent),
		queueTimeout: time.Duration(cfg.QueueTimeout) * time.Second,
	}
}

// Detect 返回主体包围盒（千分比）、整幅粗掩码与置信度
func (d *SubjectDetector) Detect(ctx context.Context, img image.Image) (engine.NormalizedBox, *image.Gray, float64, error) {
	// 并发控制
	ctx, cancel := context.WithTimeout(ctx, d.queueTimeout)
	defer cancel()

	select {
	case d.semaphore <- struct{}{}:
		defer func() { <-d.semaphore }()
	case <-ctx.Done():
		return engine.NormalizedBox{}, nil, 0, fmt.Errorf("检测队列已满，请稍后重试")
	}

	startTime := time.Now()
	bounds := img.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return engine.NormalizedBox{}, nil, 0, fmt.Errorf("图像转换失败: %w", err)
	}
	defer mat.Close()

	// 智能缩放，控制显著性分析的像素规模
	scaled, release := d.smartResize(&mat)
	defer release()

	width := scaled.Cols()
	height := scaled.Rows()

	saliency := d.saliencyMap(scaled)
	defer saliency.Close()

	rect := d.extractRect(&saliency, width, height)
	box := engine.NormalizedBox{
		YMin: rect.Min.Y * 1000 / height,
		XMin: rect.Min.X * 1000 / width,
		YMax: rect.Max.Y * 1000 / height,
		XMax: rect.Max.X * 1000 / width,
	}

	mask, confidence, err := d.subjectMask(&saliency, origWidth, origHeight)
	if err != nil {
		return engine.NormalizedBox{}, nil, 0, err
	}

	utils.Logger.Info("subject detected",
		zap.Int("width", origWidth),
		zap.Int("height", origHeight),
		zap.Float64("confidence", confidence),
		zap.Duration("duration", time.Since(startTime)))

	return box, mask, confidence, nil
}

// saliencyMap 计算显著性图：Sobel 梯度幅值、高斯平滑、Otsu 阈值
func (d *SubjectDetector) saliencyMap(img *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*img, &gray, gocv.ColorRGBToGray)

	gradX := gocv.NewMat()
	gradY := gocv.NewMat()
	defer gradX.Close()
	defer gradY.Close()

	gocv.Sobel(gray, &gradX, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gradY, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)

	absGradX := gocv.NewMat()
	absGradY := gocv.NewMat()
	defer absGradX.Close()
	defer absGradY.Close()

	gocv.ConvertScaleAbs(gradX, &absGradX, 1, 0)
	gocv.ConvertScaleAbs(gradY, &absGradY, 1, 0)

	gradient := gocv.NewMat()
	defer gradient.Close()
	gocv.AddWeighted(absGradX, 0.5, absGradY, 0.5, 0, &gradient)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gradient, &blurred, image.Point{X: 21, Y: 21}, 0, 0, gocv.BorderDefault)

	saliency := gocv.NewMat()
	gocv.Threshold(blurred, &saliency, 0, 255, gocv.ThresholdOtsu)

	return saliency
}

// extractRect 提取显著性区域的边界矩形
func (d *SubjectDetector) extractRect(saliency *gocv.Mat, width, height int) image.Rectangle {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 21, Y: 21})
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(*saliency, &dilated, kernel)

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		border := int(float64(width) * 0.1)
		return image.Rect(border, border, width-border, height-border)
	}

	var maxRect image.Rectangle
	maxArea := 0.0

	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > maxArea {
			maxArea = area
			maxRect = gocv.BoundingRect(contours.At(i))
		}
	}

	padding := int(float64(maxRect.Dx()) * 0.05)
	maxRect.Min.X = max(0, maxRect.Min.X-padding)
	maxRect.Min.Y = max(0, maxRect.Min.Y-padding)
	maxRect.Max.X = min(width, maxRect.Max.X+padding)
	maxRect.Max.Y = min(height, maxRect.Max.Y+padding)

	return maxRect
}

// subjectMask 把显著性图整形为整幅图像分辨率的二值掩码
func (d *SubjectDetector) subjectMask(saliency *gocv.Mat, origWidth, origHeight int) (*image.Gray, float64, error) {
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: d.kernelSize, Y: d.kernelSize})
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(*saliency, &opened, gocv.MorphOpen, kernel)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(opened, &closed, gocv.MorphClose, kernel)

	confidence := float64(gocv.CountNonZero(closed)) / float64(closed.Cols()*closed.Rows())
	if confidence < 0.05 {
		confidence = 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	converted, err := closed.ToImage()
	if err != nil {
		return nil, 0, fmt.Errorf("掩码转换失败: %w", err)
	}
	mask := engine.ToGray(converted)

	if mask.Bounds().Dx() != origWidth || mask.Bounds().Dy() != origHeight {
		resized, err := engine.ResizeMask(mask, origWidth, origHeight)
		if err != nil {
			return nil, 0, err
		}
		// 重采样后重新二值化
		for i, v := range resized.Pix {
			if v > 127 {
				resized.Pix[i] = 255
			} else {
				resized.Pix[i] = 0
			}
		}
		mask = resized
	}
	return mask, confidence, nil
}

// smartResize 超过最大边长时按面积插值缩小，返回释放函数
func (d *SubjectDetector) smartResize(mat *gocv.Mat) (*gocv.Mat, func()) {
	width := mat.Cols()
	height := mat.Rows()
	if max(width, height) <= d.maxDim {
		return mat, func() {}
	}

	scale := float64(d.maxDim) / float64(max(width, height))
	resized := gocv.NewMat()
	gocv.Resize(*mat, &resized,
		image.Point{X: int(float64(width) * scale), Y: int(float64(height) * scale)},
		0, 0, gocv.InterpolationArea)
	return &resized, func() { resized.Close() }
}
