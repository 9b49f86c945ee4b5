package handler

import (
	"errors"
	"net/http"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/service"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaskHandler 无状态掩码运算：区域掩码展开与盒状掩码生成
type MaskHandler struct {
	cfg     *config.Config
	refiner *service.MaskRefiner
}

func NewMaskHandler(cfg *config.Config, refiner *service.MaskRefiner) *MaskHandler {
	return &MaskHandler{
		cfg:     cfg,
		refiner: refiner,
	}
}

// Expand 把检测服务返回的包围盒掩码展开到整幅图像坐标系。
// 源掩码为空时退化为盒状实心掩码。
func (h *MaskHandler) Expand(c *gin.Context) {
	var req model.ExpandMaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	if req.Width*req.Height > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "目标尺寸超过限制", nil)
		return
	}

	small, err := decodeMask(req.MaskBase64)
	if err != nil {
		respondEngineError(c, "解码掩码失败", err)
		return
	}

	full, err := engine.Expand(small, req.Width, req.Height, req.Box)
	if errors.Is(err, engine.ErrEmptyMask) {
		utils.Logger.Warn("empty mask from detector, falling back to box mask",
			zap.Int("width", req.Width), zap.Int("height", req.Height))
		full, err = engine.MaskFromBox(req.Width, req.Height, req.Box)
	}
	if err != nil {
		respondEngineError(c, "掩码展开失败", err)
		return
	}

	if req.Refine && h.refiner != nil {
		refined, err := h.refiner.Refine(full)
		if err != nil {
			utils.Logger.Warn("mask refinement failed, returning unrefined mask", zap.Error(err))
		} else {
			full = refined
		}
	}

	maskBase64, err := encodeMaskBase64(full)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data: model.MaskResult{
			MaskBase64: maskBase64,
			Width:      req.Width,
			Height:     req.Height,
		},
	})
}

// FromBox 生成盒状实心掩码
func (h *MaskHandler) FromBox(c *gin.Context) {
	var req model.BoxMaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	if req.Width*req.Height > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "目标尺寸超过限制", nil)
		return
	}

	mask, err := engine.MaskFromBox(req.Width, req.Height, req.Box)
	if err != nil {
		respondEngineError(c, "生成掩码失败", err)
		return
	}
	maskBase64, err := encodeMaskBase64(mask)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data: model.MaskResult{
			MaskBase64: maskBase64,
			Width:      req.Width,
			Height:     req.Height,
		},
	})
}
