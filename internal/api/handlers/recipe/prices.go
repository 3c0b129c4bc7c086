package recipe

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-engine/internal/api/handlers"
	"recipe-engine/internal/core/pricing"
	"recipe-engine/internal/pkg/common"
)

// CompareRequest 任意食材清單比價，數量以食材鍵的單位計
type CompareRequest struct {
	Ingredients map[string]float64 `json:"ingredients" binding:"required"`
}

// CompareResponse 比價結果與最便宜的賣場
type CompareResponse struct {
	pricing.Comparison
	Cheapest *pricing.Total `json:"cheapest,omitempty"`
}

func withCheapest(cmp pricing.Comparison) CompareResponse {
	resp := CompareResponse{Comparison: cmp}
	if t, ok := cmp.Cheapest(); ok {
		resp.Cheapest = &t
	}
	return resp
}

// Prices 食譜在各賣場的總價（基準份數）
func (h *Handler) Prices(c *gin.Context) {
	cmp, err := h.engine.Compare(c.Param("name"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withCheapest(cmp))
}

// Compare 任意食材清單比價
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err)
		return
	}
	for key, qty := range req.Ingredients {
		if qty < 0 {
			handlers.RespondError(c, common.NewValidationError(fmt.Sprintf("negative quantity for %s", key)))
			return
		}
	}
	c.JSON(http.StatusOK, withCheapest(h.engine.CompareIngredients(req.Ingredients)))
}

// StoreLink 賣場在指定城市的搜尋連結
func (h *Handler) StoreLink(c *gin.Context) {
	retailer, city := c.Param("retailer"), c.Query("city")
	if city == "" {
		handlers.RespondError(c, common.NewValidationError("city is required"))
		return
	}

	link, err := h.engine.StoreLink(retailer, city)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"retailer": retailer, "city": city, "url": link})
}
