package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-engine/internal/core/assistant"
	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/conversation"
	"recipe-engine/internal/core/engine"
	"recipe-engine/internal/core/image"
	"recipe-engine/internal/core/pricing"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/core/units"
	"recipe-engine/internal/pkg/common"
)

// errorMappings 領域錯誤對應的 API 錯誤，依序比對
var errorMappings = []struct {
	target error
	api    *common.CustomError
}{
	{catalog.ErrNotFound, common.ErrRecipeNotFound},
	{session.ErrSessionNotFound, common.ErrSessionNotFound},
	{engine.ErrInvalidServings, common.ErrInvalidServings},
	{units.ErrNoConversion, common.ErrNoConversion},
	{units.ErrUnknownUnit, common.ErrInvalidRequest},
	{pricing.ErrUnknownRetailer, common.ErrNotFound},
	{image.ErrInvalidImage, common.ErrInvalidImageFormat},
	{image.ErrImageTooLarge, common.ErrInvalidImageSize},
	{conversation.ErrEmptyMessage, common.ErrInvalidRequest},
	{assistant.ErrDisabled, common.ErrAssistantDisabled},
	{assistant.ErrQueueFull, common.ErrServiceUnavailable},
	{assistant.ErrQueueClosed, common.ErrServiceUnavailable},
	{context.DeadlineExceeded, common.ErrGatewayTimeout},
}

// ToAPIError 將錯誤轉為 API 錯誤
func ToAPIError(err error) *common.CustomError {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return ce
	}
	if common.IsValidationError(err) {
		return common.ErrInvalidRequest.WithErr(err)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.api.WithErr(err)
		}
	}
	return common.ErrInternalError.WithErr(err)
}

// RespondError 回傳錯誤響應；開發模式下附上原始錯誤
func RespondError(c *gin.Context, err error) {
	apiErr := ToAPIError(err)
	if apiErr.Status >= 500 {
		common.LogError("Request failed",
			zap.String("code", apiErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, apiErr.Response(gin.IsDebugging()))
}

// BadRequest 請求格式錯誤
func BadRequest(c *gin.Context, err error) {
	RespondError(c, common.ErrInvalidRequest.WithErr(err))
}
