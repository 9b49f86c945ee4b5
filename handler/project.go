package handler

import (
	"net/http"
	"time"

	"github.com/TIANLI0/LayerStudio/config"
	"github.com/TIANLI0/LayerStudio/model"
	"github.com/TIANLI0/LayerStudio/service"
	"github.com/TIANLI0/LayerStudio/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectHandler 项目与图层文档的增删改查及合成操作
type ProjectHandler struct {
	cfg   *config.Config
	store service.ProjectStore
}

func NewProjectHandler(cfg *config.Config, store service.ProjectStore) *ProjectHandler {
	return &ProjectHandler{
		cfg:   cfg,
		store: store,
	}
}

// loadProject 读取 :id 指定的项目，失败时已写好响应
func (h *ProjectHandler) loadProject(c *gin.Context) (*model.Project, bool) {
	id := c.Param("id")
	project, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		utils.Logger.Error("failed to load project", zap.String("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "读取项目失败", err)
		return nil, false
	}
	if project == nil {
		respondError(c, http.StatusNotFound, "项目不存在", nil)
		return nil, false
	}
	return project, true
}

// saveProject 持久化项目并刷新更新时间，失败时已写好响应
func (h *ProjectHandler) saveProject(c *gin.Context, project *model.Project) bool {
	project.UpdatedAt = time.Now().UTC()
	if err := h.store.Put(c.Request.Context(), project); err != nil {
		utils.Logger.Error("failed to save project", zap.String("id", project.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "保存项目失败", err)
		return false
	}
	return true
}

// Create 创建项目
func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	if req.Width <= 0 {
		req.Width = h.cfg.Canvas.DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = h.cfg.Canvas.DefaultHeight
	}
	if req.Width*req.Height > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "画布尺寸超过限制", nil)
		return
	}

	now := time.Now().UTC()
	project := &model.Project{
		ID:        utils.GenerateID(),
		Name:      req.Name,
		Layers:    []model.Layer{},
		Width:     req.Width,
		Height:    req.Height,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Put(c.Request.Context(), project); err != nil {
		utils.Logger.Error("failed to create project", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "创建项目失败", err)
		return
	}

	utils.Logger.Info("project created",
		zap.String("id", project.ID),
		zap.String("name", project.Name),
		zap.Int("width", project.Width),
		zap.Int("height", project.Height))

	c.JSON(http.StatusOK, model.Response{Success: true, Message: "创建成功", Data: project})
}

// List 列出所有项目
func (h *ProjectHandler) List(c *gin.Context) {
	summaries, err := h.store.List(c.Request.Context())
	if err != nil {
		utils.Logger.Error("failed to list projects", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "查询失败", err)
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "查询成功", Data: summaries})
}

// Get 获取单个项目
func (h *ProjectHandler) Get(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "查询成功", Data: project})
}

// Update 更新项目属性
func (h *ProjectHandler) Update(c *gin.Context) {
	var req model.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数无效", err)
		return
	}
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Width != nil && *req.Width > 0 {
		project.Width = *req.Width
	}
	if req.Height != nil && *req.Height > 0 {
		project.Height = *req.Height
	}
	if project.Width*project.Height > h.cfg.Canvas.MaxPixels {
		respondError(c, http.StatusBadRequest, "画布尺寸超过限制", nil)
		return
	}
	if !h.saveProject(c, project) {
		return
	}
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "更新成功", Data: project})
}

// Delete 删除项目
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	found, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Logger.Error("failed to delete project", zap.String("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "删除失败", err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "项目不存在", nil)
		return
	}
	utils.Logger.Info("project deleted", zap.String("id", id))
	c.JSON(http.StatusOK, model.Response{Success: true, Message: "删除成功"})
}
