package recipe

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-engine/internal/api/handlers"
	"recipe-engine/internal/core/units"
	"recipe-engine/internal/pkg/common"
)

// Convert 單位換算，例如 /units/convert?value=350&from=F&to=C
func (h *Handler) Convert(c *gin.Context) {
	value, err := strconv.ParseFloat(c.Query("value"), 64)
	if err != nil {
		handlers.BadRequest(c, fmt.Errorf("invalid value: %w", err))
		return
	}

	conv, err := h.engine.Convert(value, c.Query("from"), c.Query("to"))
	if err != nil {
		apiErr := handlers.ToAPIError(err)
		// 附上可換算的單位方便使用者修正
		if from, perr := units.Parse(c.Query("from")); perr == nil && apiErr.Code == common.ErrNoConversion.Code {
			c.AbortWithStatusJSON(apiErr.Status, gin.H{
				"code":    apiErr.Code,
				"message": apiErr.Message,
				"targets": units.Targets(from),
			})
			return
		}
		handlers.RespondError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// Glossary 查詢達利亞語對照
func (h *Handler) Glossary(c *gin.Context) {
	tr, ok := h.engine.Translate(c.Param("word"))
	if !ok {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, tr)
}
