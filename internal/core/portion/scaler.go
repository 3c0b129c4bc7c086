package portion

import (
	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/pkg/common"
)

// Scaled 換算份數後的食譜用量
type Scaled struct {
	Recipe      string              `json:"recipe"`
	Servings    int                 `json:"servings"`
	Multiplier  float64             `json:"multiplier"`
	Ingredients catalog.Ingredients `json:"ingredients"`
	Budget      float64             `json:"budget"`
}

// Scaler 以基準份數線性換算用量
type Scaler struct {
	baseline int
}

// New 建立 Scaler，baseline 為資料中用量對應的份數
func New(baseline int) *Scaler {
	return &Scaler{baseline: baseline}
}

// Baseline 基準份數
func (s *Scaler) Baseline() int {
	return s.baseline
}

// Scale 換算為 servings 人份
//
// 每項用量四捨五入到小數第二位；總預算為每人預算乘以人數。
// servings 必須為正數，由呼叫端檢查。
func (s *Scaler) Scale(r *catalog.Recipe, servings int) Scaled {
	return Scaled{
		Recipe:      r.Name,
		Servings:    servings,
		Multiplier:  float64(servings) / float64(s.baseline),
		Ingredients: ScaleIngredients(r.Ingredients, s.baseline, servings),
		Budget:      common.Round2(r.Budget * float64(servings)),
	}
}

// ScaleIngredients 將 from 人份的用量換算為 to 人份
func ScaleIngredients(in catalog.Ingredients, from, to int) catalog.Ingredients {
	multiplier := float64(to) / float64(from)
	out := make(catalog.Ingredients, len(in))
	for i, ing := range in {
		out[i] = catalog.Ingredient{Key: ing.Key, Quantity: common.Round2(ing.Quantity * multiplier)}
	}
	return out
}
