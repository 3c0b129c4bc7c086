package recipe

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-engine/internal/api/handlers"
	"recipe-engine/internal/core/allergen"
	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/matching"
	"recipe-engine/internal/pkg/common"
)

// Summary 食譜列表項目
type Summary struct {
	Name       string             `json:"name"`
	Origin     catalog.Origin     `json:"origin"`
	Country    string             `json:"country"`
	Category   string             `json:"category"`
	Budget     float64            `json:"budget"`
	Duration   int                `json:"duration"`
	Difficulty catalog.Difficulty `json:"difficulty"`
	Seasons    []catalog.Season   `json:"seasons"`
}

// FilterRequest 篩選條件；difficulty 與 season 接受法文或英文
type FilterRequest struct {
	BudgetMax  *float64 `json:"budget_max"`
	TimeMax    *int     `json:"time_max"`
	Difficulty string   `json:"difficulty"`
	Season     string   `json:"season"`
	Allergies  []string `json:"allergies"`
}

// FilterResult 篩選結果，附上過敏原標記
type FilterResult struct {
	matching.Match
	Safe  bool            `json:"safe"`
	Flags []allergen.Flag `json:"flags,omitempty"`
}

// ScanRequest 食材掃描請求：名稱清單、冰箱照片或兩者
type ScanRequest struct {
	Ingredients []string `json:"ingredients"`
	Image       string   `json:"image"`
}

// ScanResponse 食材掃描結果
type ScanResponse struct {
	Ingredients []string                `json:"ingredients"`
	Identified  []string                `json:"identified,omitempty"`
	Results     []matching.Availability `json:"results"`
}

// AllergenRequest 過敏原檢查請求
type AllergenRequest struct {
	Allergies []string `json:"allergies" binding:"required"`
}

func summarize(r *catalog.Recipe) Summary {
	return Summary{
		Name:       r.Name,
		Origin:     r.Origin,
		Country:    r.Origin.Label(),
		Category:   r.Category,
		Budget:     r.Budget,
		Duration:   r.Duration,
		Difficulty: r.Difficulty,
		Seasons:    r.Seasons,
	}
}

// List 列出食譜，可用 origin 查詢參數過濾（MA、FR）
func (h *Handler) List(c *gin.Context) {
	origin := catalog.Origin(c.Query("origin"))
	if origin != "" && !origin.Valid() {
		handlers.RespondError(c, common.NewValidationError(fmt.Sprintf("unknown origin %q", origin)))
		return
	}

	out := make([]Summary, 0, h.engine.Catalog().Len())
	for _, r := range h.engine.Recipes() {
		if origin == "" || r.Origin == origin {
			out = append(out, summarize(r))
		}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out, "count": len(out)})
}

// Get 取得完整食譜
func (h *Handler) Get(c *gin.Context) {
	r, err := h.engine.Recipe(c.Param("name"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Filter 依條件篩選食譜
func (h *Handler) Filter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	constraints := matching.Constraints{BudgetMax: req.BudgetMax, TimeMax: req.TimeMax}
	if req.Difficulty != "" {
		d, err := catalog.ParseDifficulty(req.Difficulty)
		if err != nil {
			handlers.BadRequest(c, err)
			return
		}
		constraints.Difficulty = d
	}
	if req.Season != "" {
		s, err := catalog.ParseSeason(req.Season)
		if err != nil {
			handlers.BadRequest(c, err)
			return
		}
		constraints.Season = s
	}

	matches := h.engine.Filter(constraints)
	results := make([]FilterResult, 0, len(matches))
	for _, m := range matches {
		report, err := h.engine.CheckAllergens(m.Recipe, req.Allergies)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		results = append(results, FilterResult{Match: m, Safe: report.Safe, Flags: report.Flags})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Scan 依現有食材推薦食譜；帶照片時先由視覺模型辨識
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err)
		return
	}
	if len(req.Ingredients) == 0 && req.Image == "" {
		handlers.RespondError(c, common.NewValidationError("ingredients or image is required"))
		return
	}

	resp := ScanResponse{Ingredients: append([]string{}, req.Ingredients...)}
	source := "names"

	if req.Image != "" {
		source = "photo"
		if h.vision == nil || !h.vision.Enabled() {
			handlers.RespondError(c, common.ErrAssistantDisabled)
			return
		}

		common.LogInfo("開始辨識冰箱照片",
			zap.String("request_id", requestid.Get(c)),
			zap.String("image_type", describeImage(req.Image)),
			zap.Int("image_length", len(req.Image)),
		)

		normalized, err := h.images.Normalize(req.Image)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		identified, err := h.vision.IdentifyIngredients(c.Request.Context(), normalized)
		if err != nil {
			apiErr := handlers.ToAPIError(err)
			if apiErr.Code == common.ErrCodeInternalError {
				apiErr = common.ErrAssistantError.WithErr(err)
			}
			handlers.RespondError(c, apiErr)
			return
		}
		resp.Identified = identified
		resp.Ingredients = append(resp.Ingredients, identified...)
	}

	if h.recorder != nil {
		h.recorder.ObserveScan(source)
	}
	resp.Results = h.engine.Scan(resp.Ingredients)
	c.JSON(http.StatusOK, resp)
}

// Scale 換算食譜份數
func (h *Handler) Scale(c *gin.Context) {
	servings, err := strconv.Atoi(c.Query("servings"))
	if err != nil {
		handlers.RespondError(c, common.ErrInvalidServings.WithErr(err))
		return
	}

	scaled, err := h.engine.Scale(c.Param("name"), servings)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scaled)
}

// Allergens 檢查食譜是否含有宣告的過敏原
func (h *Handler) Allergens(c *gin.Context) {
	var req AllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	report, err := h.engine.CheckAllergens(c.Param("name"), req.Allergies)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Allergies 列出支援的過敏原類別
func (h *Handler) Allergies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"classes": h.engine.Taxonomy().Classes()})
}
