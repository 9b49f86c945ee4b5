package model

import (
	"github.com/TIANLI0/LayerStudio/engine"
)

type CreateProjectRequest struct {
	Name   string `json:"name" binding:"required"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type UpdateProjectRequest struct {
	Name   *string `json:"name"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

type AddLayerRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type"`
	ImageData string `json:"image_data"`
	Order     *int   `json:"order"`
}

type UpdateLayerRequest struct {
	Name      *string  `json:"name"`
	Visible   *bool    `json:"visible"`
	Opacity   *float64 `json:"opacity"`
	BlendMode *string  `json:"blend_mode"`
	Order     *int     `json:"order"`
	ImageData *string  `json:"image_data"`
}

type DuplicateLayerRequest struct {
	NewName string `json:"new_name"`
}

type ApplyMaskRequest struct {
	MaskLayerID string `json:"mask_layer_id" binding:"required"`
	Invert      bool   `json:"invert"`
}

type ExtractRequest struct {
	MaskLayerID string `json:"mask_layer_id" binding:"required"`
}

type CombineMasksRequest struct {
	MaskLayerIDs []string `json:"mask_layer_ids" binding:"required"`
	Operation    string   `json:"operation"`
	ResultName   string   `json:"result_name"`
}

type CompositeRequest struct {
	BackgroundLayerID string   `json:"background_layer_id" binding:"required"`
	ForegroundLayerID string   `json:"foreground_layer_id" binding:"required"`
	PositionX         int      `json:"position_x"`
	PositionY         int      `json:"position_y"`
	Opacity           *float64 `json:"opacity"`
}

// ExpandMaskRequest 区域掩码展开请求。box 为 [y_min, x_min, y_max, x_max]
// 千分比坐标；refine 时对结果做形态学清理。
type ExpandMaskRequest struct {
	MaskBase64 string               `json:"mask_base64" binding:"required"`
	Width      int                  `json:"width" binding:"required"`
	Height     int                  `json:"height" binding:"required"`
	Box        engine.NormalizedBox `json:"box"`
	Refine     bool                 `json:"refine"`
}

type BoxMaskRequest struct {
	Width  int                  `json:"width" binding:"required"`
	Height int                  `json:"height" binding:"required"`
	Box    engine.NormalizedBox `json:"box"`
}

type DetectRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}
