package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"recipe-engine/internal/core/allergen"
	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/intent"
	"recipe-engine/internal/core/matching"
	"recipe-engine/internal/core/portion"
	"recipe-engine/internal/core/pricing"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/core/units"
	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/pkg/common"
)

// ErrInvalidServings 份數必須為正數
var ErrInvalidServings = errors.New("servings must be positive")

// Engine 食譜比對與推薦引擎
//
// 目錄、價格與過敏原表在建立後唯讀，Engine 可在多個會話間共用。
// 會話狀態由呼叫端持有並傳入，引擎本身不保存任何使用者狀態。
type Engine struct {
	catalog  *catalog.Catalog
	prices   *pricing.Table
	taxonomy *allergen.Taxonomy
	matcher  *intent.Matcher
	scorer   *matching.Scorer
	scaler   *portion.Scaler
	cfg      config.EngineConfig
}

// Analysis 單句使用者輸入的分析結果
type Analysis struct {
	Allergens []string      `json:"allergens"`
	Stress    intent.Stress `json:"stress"`
	Intent    intent.Intent `json:"intent"`
	City      string        `json:"city,omitempty"`
}

// Conversion 單位換算結果
type Conversion struct {
	Value  float64    `json:"value"`
	From   units.Unit `json:"from"`
	To     units.Unit `json:"to"`
	Result float64    `json:"result"`
}

// New 以既有資料建立引擎，份量換算一律以食譜目錄的基準份數為準
func New(cat *catalog.Catalog, prices *pricing.Table, taxonomy *allergen.Taxonomy, cfg config.EngineConfig) *Engine {
	return &Engine{
		catalog:  cat,
		prices:   prices,
		taxonomy: taxonomy,
		matcher: intent.New(cat,
			intent.WithStressThreshold(cfg.StressThreshold),
			intent.WithLookback(cfg.HistoryLookback),
		),
		scorer: matching.New(cat,
			matching.WithMaxFilterResults(cfg.MaxFilterResults),
			matching.WithMaxScanResults(cfg.MaxScanResults),
		),
		scaler: portion.New(cat.Baseline()),
		cfg:    cfg,
	}
}

// NewDefault 以內嵌的食譜與價格資料建立引擎
func NewDefault(cfg config.EngineConfig) (*Engine, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	prices, err := pricing.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	common.LogInfo("推薦引擎已初始化",
		zap.Int("食譜數量", cat.Len()),
		zap.Strings("零售商", prices.Retailers()),
		zap.Int("基準份數", cat.Baseline()),
	)
	return New(cat, prices, allergen.Default(), cfg), nil
}

// Catalog 食譜目錄
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Prices 價格表
func (e *Engine) Prices() *pricing.Table { return e.prices }

// Taxonomy 過敏原分類表
func (e *Engine) Taxonomy() *allergen.Taxonomy { return e.taxonomy }

// Recipes 全部食譜，依目錄順序
func (e *Engine) Recipes() []*catalog.Recipe {
	return e.catalog.All()
}

// Recipe 依名稱取得食譜
func (e *Engine) Recipe(name string) (*catalog.Recipe, error) {
	return e.catalog.Get(name)
}

// Filter 依條件篩選排序食譜
func (e *Engine) Filter(c matching.Constraints) []matching.Match {
	return e.scorer.Filter(c)
}

// Scan 依現有食材排序可做的食譜
func (e *Engine) Scan(available []string) []matching.Availability {
	return e.scorer.Scan(available)
}

// CheckAllergens 檢查食譜是否含有宣告的過敏原
func (e *Engine) CheckAllergens(name string, classes []string) (allergen.Report, error) {
	r, err := e.catalog.Get(name)
	if err != nil {
		return allergen.Report{}, err
	}
	return e.taxonomy.Check(r, classes), nil
}

// SafeRecipes 不含任何宣告過敏原的食譜名稱
func (e *Engine) SafeRecipes(classes []string) []string {
	var out []string
	for _, r := range e.catalog.All() {
		if e.taxonomy.Check(r, classes).Safe {
			out = append(out, r.Name)
		}
	}
	return out
}

// Compare 比較食譜在各零售商的總價（基準份數）
func (e *Engine) Compare(name string) (pricing.Comparison, error) {
	r, err := e.catalog.Get(name)
	if err != nil {
		return pricing.Comparison{}, err
	}
	return e.prices.Compare(r.Ingredients), nil
}

// CompareIngredients 比較任意食材清單的總價
func (e *Engine) CompareIngredients(quantities map[string]float64) pricing.Comparison {
	return e.prices.CompareQuantities(quantities)
}

// Scale 將食譜換算為 servings 人份
func (e *Engine) Scale(name string, servings int) (portion.Scaled, error) {
	if servings <= 0 {
		return portion.Scaled{}, fmt.Errorf("%w: %d", ErrInvalidServings, servings)
	}
	r, err := e.catalog.Get(name)
	if err != nil {
		return portion.Scaled{}, err
	}
	return e.scaler.Scale(r, servings), nil
}

// Convert 以單位名稱換算數值
func (e *Engine) Convert(value float64, from, to string) (Conversion, error) {
	result, f, t, err := units.ConvertNames(value, from, to)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Value: value, From: f, To: t, Result: result}, nil
}

// Analyze 分析一句使用者輸入，不修改會話
//
// Allergens 只包含會話尚未記錄的過敏原類別。sess 可為 nil。
func (e *Engine) Analyze(sess *session.Session, text string) Analysis {
	var history []session.Turn
	var profile session.Profile
	if sess != nil {
		history = sess.History
		profile = sess.Profile
	}

	a := Analysis{
		Allergens: []string{},
		Stress:    e.matcher.Stress(text),
		Intent:    e.matcher.Resolve(text, history),
	}
	for _, class := range e.taxonomy.Detect(text) {
		if !profile.HasAllergy(class) {
			a.Allergens = append(a.Allergens, class)
		}
	}
	if city, ok := e.matcher.DetectCity(text); ok {
		a.City = city
	}

	common.LogDebug("輸入分析完成",
		zap.Strings("allergens", a.Allergens),
		zap.Int("stress", a.Stress.Score),
		zap.String("recipe", a.Intent.Recipe),
		zap.String("mentioned", a.Intent.Mentioned),
	)
	return a
}

// QuickIdeas 壓力大的使用者適合的簡單快速食譜
func (e *Engine) QuickIdeas() []matching.Match {
	c := matching.Constraints{Difficulty: catalog.DifficultyEasy}
	if e.cfg.DefaultBudget > 0 {
		budget := e.cfg.DefaultBudget
		c.BudgetMax = &budget
	}
	if e.cfg.QuickMaxMinutes > 0 {
		minutes := e.cfg.QuickMaxMinutes
		c.TimeMax = &minutes
	}
	return e.scorer.Filter(c)
}

// Translate 查詢達利亞語（摩洛哥阿拉伯語）對照
func (e *Engine) Translate(word string) (catalog.Translation, bool) {
	return catalog.Translate(word)
}

// StoreLink 零售商在指定城市的店家搜尋連結
func (e *Engine) StoreLink(retailer, city string) (string, error) {
	return e.prices.StoreLink(retailer, city)
}
