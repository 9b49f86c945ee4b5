package handler

import (
	"image"
	"net/http"

	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// appendResultLayer 把运算结果作为新图层挂到项目顶端并保存
func (h *ProjectHandler) appendResultLayer(c *gin.Context, project *model.Project, name, layerType, imageBase64 string) (*model.Layer, bool) {
	layer := model.Layer{
		ID:          utils.GenerateID(),
		Name:        name,
		Type:        layerType,
		ImageBase64: imageBase64,
		Visible:     true,
		Opacity:     1.0,
		BlendMode:   "normal",
		Order:       len(project.Layers),
	}
	project.Layers = append(project.Layers, layer)
	if !h.saveProject(c, project) {
		return nil, false
	}
	return &layer, true
}

// ApplyMask 把掩码图层写入图像图层的 alpha 通道，生成新图层
func (h *ProjectHandler) ApplyMask(c *gin.Context) {
	var req model.ApplyMaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	imageLayer, _ := project.FindLayer(c.Param("layerID"))
	if imageLayer == nil {
		respondError(c, http.StatusNotFound, "图像图层不存在", nil)
		return
	}
	maskLayer, _ := project.FindLayer(req.MaskLayerID)
	if maskLayer == nil {
		respondError(c, http.StatusNotFound, "掩码图层不存在", nil)
		return
	}

	img, err := decodeRaster(imageLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码图像图层失败", err)
		return
	}
	mask, err := decodeMask(maskLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码掩码图层失败", err)
		return
	}

	result, err := engine.ApplyMask(img, mask, req.Invert)
	if err != nil {
		respondEngineError(c, "应用掩码失败", err)
		return
	}
	resultBase64, err := encodeRasterBase64(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	layer, ok := h.appendResultLayer(c, project, imageLayer.Name+" (Masked)", "image", resultBase64)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "处理成功", Data: layer})
}

// Extract 按掩码抠取图层内容到透明画布，生成新图层
func (h *ProjectHandler) Extract(c *gin.Context) {
	var req model.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	imageLayer, _ := project.FindLayer(c.Param("layerID"))
	maskLayer, _ := project.FindLayer(req.MaskLayerID)
	if imageLayer == nil || maskLayer == nil {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}

	img, err := decodeRaster(imageLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码图像图层失败", err)
		return
	}
	mask, err := decodeMask(maskLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码掩码图层失败", err)
		return
	}

	result, err := engine.ExtractWithMask(img, mask)
	if err != nil {
		respondEngineError(c, "抠取失败", err)
		return
	}
	resultBase64, err := encodeRasterBase64(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	layer, ok := h.appendResultLayer(c, project, imageLayer.Name+" (Extracted)", "image", resultBase64)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "处理成功", Data: layer})
}

// CombineMasks 组合多个掩码图层，生成新掩码图层
func (h *ProjectHandler) CombineMasks(c *gin.Context) {
	var req model.CombineMasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	masks := make([]*image.Gray, 0, len(req.MaskLayerIDs))
	for _, id := range req.MaskLayerIDs {
		layer, _ := project.FindLayer(id)
		if layer == nil {
			respondError(c, http.StatusNotFound, "掩码图层不存在: "+id, nil)
			return
		}
		mask, err := decodeMask(layer.ImageBase64)
		if err != nil {
			respondEngineError(c, "解码掩码图层失败: "+id, err)
			return
		}
		masks = append(masks, mask)
	}

	operation := engine.MaskOp(req.Operation)
	if req.Operation == "" {
		operation = engine.OpUnion
	}
	result, err := engine.Combine(masks, operation)
	if err != nil {
		respondEngineError(c, "掩码组合失败", err)
		return
	}
	resultBase64, err := encodeMaskBase64(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	name := req.ResultName
	if name == "" {
		name = "Combined Mask"
	}
	layer, ok := h.appendResultLayer(c, project, name, "mask", resultBase64)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "处理成功", Data: layer})
}

// Composite 把前景图层合成到背景图层上，生成新图层
func (h *ProjectHandler) Composite(c *gin.Context) {
	var req model.CompositeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	bgLayer, _ := project.FindLayer(req.BackgroundLayerID)
	fgLayer, _ := project.FindLayer(req.ForegroundLayerID)
	if bgLayer == nil || fgLayer == nil {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}

	bg, err := decodeRaster(bgLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码背景图层失败", err)
		return
	}
	fg, err := decodeRaster(fgLayer.ImageBase64)
	if err != nil {
		respondEngineError(c, "解码前景图层失败", err)
		return
	}

	opacity := 1.0
	if req.Opacity != nil {
		opacity = *req.Opacity
	}
	if opacity < 0 || opacity > 1 {
		respondError(c, http.StatusBadRequest, "不透明度必须在 [0,1] 区间", nil)
		return
	}

	result, err := engine.Composite(bg, fg, req.PositionX, req.PositionY, opacity)
	if err != nil {
		respondEngineError(c, "合成失败", err)
		return
	}
	resultBase64, err := encodeRasterBase64(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	layer, ok := h.appendResultLayer(c, project, "Composited Layer", "image", resultBase64)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "处理成功", Data: layer})
}

// flattenProject 扁平化项目的可见图层
func (h *ProjectHandler) flattenProject(c *gin.Context, project *model.Project) (*image.NRGBA, bool) {
	layers := make([]engine.Layer, 0, len(project.Layers))
	for _, l := range project.Layers {
		var img *image.NRGBA
		if l.Visible && l.ImageBase64 != "" {
			decoded, err := decodeRaster(l.ImageBase64)
			if err != nil {
				respondEngineError(c, "解码图层失败: "+l.ID, err)
				return nil, false
			}
			img = decoded
		}
		layers = append(layers, engine.Layer{
			Image:     img,
			Visible:   l.Visible,
			Opacity:   l.Opacity,
			BlendMode: l.BlendMode,
			Order:     l.Order,
		})
	}

	result, err := engine.Flatten(layers)
	if err != nil {
		respondEngineError(c, "扁平化失败", err)
		return nil, false
	}
	return result, true
}

// Flatten 扁平化项目并返回 base64 结果
func (h *ProjectHandler) Flatten(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	result, ok := h.flattenProject(c, project)
	if !ok {
		return
	}
	resultBase64, err := encodeRasterBase64(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	utils.Logger.Info("project flattened",
		zap.String("id", project.ID),
		zap.Int("layers", len(project.Layers)))

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "处理成功",
		Data: model.FlattenResult{
			FlattenedImage: resultBase64,
			Width:          result.Bounds().Dx(),
			Height:         result.Bounds().Dy(),
		},
	})
}

// Export 导出扁平化结果为 PNG 附件
func (h *ProjectHandler) Export(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	result, ok := h.flattenProject(c, project)
	if !ok {
		return
	}
	data, err := engine.Encode(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "编码结果失败", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="export.png"`)
	c.Data(http.StatusOK, "image/png", data)
}
