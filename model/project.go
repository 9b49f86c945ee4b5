package model

import (
	"sort"
	"time"
)

// Layer 项目中的单个图层。type 只是元数据（image/mask/generated），
// 引擎统一按"栅格 + 合成参数"处理。
type Layer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"` // image, mask, generated
	ImageBase64 string  `json:"image_base64"`
	Visible     bool    `json:"visible"`
	Opacity     float64 `json:"opacity"`
	BlendMode   string  `json:"blend_mode"`
	Order       int     `json:"order"`
}

// Project 命名的图层文档，整体以 JSON 形式存取
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layers    []Layer   `json:"layers"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectSummary 项目列表条目
type ProjectSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	LayerCount int       `json:"layer_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FindLayer 按 ID 查找图层，返回下标；未找到时下标为 -1
func (p *Project) FindLayer(layerID string) (*Layer, int) {
	for i := range p.Layers {
		if p.Layers[i].ID == layerID {
			return &p.Layers[i], i
		}
	}
	return nil, -1
}

// SortLayers 按 order 稳定排序图层，相同 order 保持插入顺序
func (p *Project) SortLayers() {
	sort.SliceStable(p.Layers, func(i, j int) bool {
		return p.Layers[i].Order < p.Layers[j].Order
	})
}

// Summary 生成列表条目
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		Name:       p.Name,
		Width:      p.Width,
		Height:     p.Height,
		LayerCount: len(p.Layers),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
