package handler

import (
	"net/http"

	"github.com/TIANLI0/LayerStudio/engine"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddLayer 向项目追加图层
func (h *ProjectHandler) AddLayer(c *gin.Context) {
	var req model.AddLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	layerType := req.Type
	if layerType == "" {
		layerType = "image"
	}
	order := len(project.Layers)
	if req.Order != nil {
		order = *req.Order
	}

	layer := model.Layer{
		ID:          utils.GenerateID(),
		Name:        req.Name,
		Type:        layerType,
		ImageBase64: req.ImageData,
		Visible:     true,
		Opacity:     1.0,
		BlendMode:   "normal",
		Order:       order,
	}

	project.Layers = append(project.Layers, layer)
	project.SortLayers()
	if !h.saveProject(c, project) {
		return
	}

	utils.Logger.Info("layer added",
		zap.String("project_id", project.ID),
		zap.String("layer_id", layer.ID),
		zap.String("type", layer.Type))

	c.JSON(http.StatusOK, model.Response{Success: true, Message: "添加成功", Data: layer})
}

// ListLayers 按 z 序列出项目图层
func (h *ProjectHandler) ListLayers(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	project.SortLayers()
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "查询成功", Data: project.Layers})
}

// GetLayer 获取单个图层
func (h *ProjectHandler) GetLayer(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	layer, _ := project.FindLayer(c.Param("layerID"))
	if layer == nil {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "查询成功", Data: layer})
}

// UpdateLayer 更新图层属性
func (h *ProjectHandler) UpdateLayer(c *gin.Context) {
	var req model.UpdateLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	if req.BlendMode != nil && !engine.ValidBlendMode(*req.BlendMode) {
		respondError(c, http.StatusBadRequest, "不支持的混合模式", engine.ErrUnsupportedOperation)
		return
	}
	if req.Opacity != nil && (*req.Opacity < 0 || *req.Opacity > 1) {
		respondError(c, http.StatusBadRequest, "不透明度必须在 [0,1] 区间", nil)
		return
	}

	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	layer, _ := project.FindLayer(c.Param("layerID"))
	if layer == nil {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}

	if req.Name != nil {
		layer.Name = *req.Name
	}
	if req.Visible != nil {
		layer.Visible = *req.Visible
	}
	if req.Opacity != nil {
		layer.Opacity = *req.Opacity
	}
	if req.BlendMode != nil {
		layer.BlendMode = *req.BlendMode
	}
	if req.Order != nil {
		layer.Order = *req.Order
	}
	if req.ImageData != nil {
		layer.ImageBase64 = *req.ImageData
	}

	updated := *layer
	project.SortLayers()
	if !h.saveProject(c, project) {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "更新成功", Data: updated})
}

// DeleteLayer 删除图层
func (h *ProjectHandler) DeleteLayer(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	_, idx := project.FindLayer(c.Param("layerID"))
	if idx < 0 {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}
	project.Layers = append(project.Layers[:idx], project.Layers[idx+1:]...)
	if !h.saveProject(c, project) {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "删除成功"})
}

// DuplicateLayer 复制图层
func (h *ProjectHandler) DuplicateLayer(c *gin.Context) {
	var req model.DuplicateLayerRequest
	_ = c.ShouldBindJSON(&req) // 空请求体也允许

	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	layer, _ := project.FindLayer(c.Param("layerID"))
	if layer == nil {
		respondError(c, http.StatusNotFound, "图层不存在", nil)
		return
	}

	name := req.NewName
	if name == "" {
		name = layer.Name + " (Copy)"
	}
	dup := model.Layer{
		ID:          utils.GenerateID(),
		Name:        name,
		Type:        layer.Type,
		ImageBase64: layer.ImageBase64,
		Visible:     layer.Visible,
		Opacity:     layer.Opacity,
		BlendMode:   layer.BlendMode,
		Order:       layer.Order + 1,
	}
	project.Layers = append(project.Layers, dup)
	project.SortLayers()
	if !h.saveProject(c, project) {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "复制成功", Data: dup})
}
