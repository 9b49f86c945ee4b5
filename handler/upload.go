package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/service"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler 图片上传与本地主体检测
type UploadHandler struct {
	cfg      *config.Config
	detector *service.SubjectDetector
}

func NewUploadHandler(cfg *config.Config, detector *service.SubjectDetector) *UploadHandler {
	return &UploadHandler{
		cfg:      cfg,
		detector: detector,
	}
}

// Upload 处理图片上传，校验后返回 base64 与尺寸信息
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Error("failed to get uploaded file", zap.Error(err))
		respondError(c, http.StatusBadRequest, "请上传图片文件", err)
		return
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)), nil)
		return
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		respondError(c, http.StatusBadRequest, "不支持的文件类型，仅支持 JPEG/PNG", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取文件失败", err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.cfg.Upload.MaxSize+1))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取文件失败", err)
		return
	}

	// 解码校验并取尺寸
	img, err := engine.Decode(data)
	if err != nil {
		respondEngineError(c, "不是有效的图片文件", err)
		return
	}
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width*height > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "图片像素数超过限制", nil)
		return
	}

	md5 := utils.BytesMD5(data)
	utils.Logger.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.String("md5", md5),
		zap.Int64("size", file.Size),
		zap.Int("width", width),
		zap.Int("height", height))

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "上传成功",
		Data: model.UploadResult{
			ImageBase64: utils.EncodeBase64Image(data),
			Width:       width,
			Height:      height,
			MD5:         md5,
			Filename:    file.Filename,
		},
	})
}

// Detect 本地主体检测，返回千分比包围盒建议与粗掩码
func (h *UploadHandler) Detect(c *gin.Context) {
	if h.detector == nil {
		respondError(c, http.StatusServiceUnavailable, "本地检测未启用", nil)
		return
	}

	var req model.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}

	img, err := decodeRaster(req.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码图片失败", err)
		return
	}
	if img.Bounds().Dx()*img.Bounds().Dy() > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "图片像素数超过限制", nil)
		return
	}

	box, mask, confidence, err := h.detector.Detect(c.Request.Context(), img)
	if err != nil {
		utils.Logger.Error("subject detection failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "检测失败", err)
		return
	}
	maskBase64, err := encodeMaskBase64(mask)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "检测成功",
		Data: model.DetectResult{
			Box:        []int{box.YMin, box.XMin, box.YMax, box.XMax},
			MaskBase64: maskBase64,
			Confidence: confidence,
		},
	})
}

func (h *UploadHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
