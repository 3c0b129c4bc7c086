package recipe

import (
	"context"

	"recipe-engine/internal/core/engine"
	"recipe-engine/internal/core/image"
)

// IngredientIdentifier 從照片辨識食材的視覺模型
type IngredientIdentifier interface {
	Enabled() bool
	IdentifyIngredients(ctx context.Context, image string) ([]string, error)
}

// ScanRecorder 食材掃描指標
type ScanRecorder interface {
	ObserveScan(source string)
}

// Handler 食譜、價格與工具類處理程序
type Handler struct {
	engine   *engine.Engine
	images   *image.Service
	vision   IngredientIdentifier
	recorder ScanRecorder
}

// NewHandler 創建新的食譜處理程序；vision 與 recorder 可為 nil
func NewHandler(e *engine.Engine, images *image.Service, vision IngredientIdentifier, recorder ScanRecorder) *Handler {
	return &Handler{
		engine:   e,
		images:   images,
		vision:   vision,
		recorder: recorder,
	}
}
