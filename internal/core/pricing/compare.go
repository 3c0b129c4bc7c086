package pricing

import (
	"sort"

	"go.uber.org/zap"

	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/pkg/common"
)

// Line 單一賣場單一食材的花費
type Line struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Cost       float64 `json:"cost"`
	Source     string  `json:"source"`
}

// Total 賣場總價
type Total struct {
	Retailer string  `json:"retailer"`
	Total    float64 `json:"total"`
}

// Comparison 各賣場比價結果，Totals 由便宜到貴
type Comparison struct {
	Currency  string            `json:"currency"`
	Totals    []Total           `json:"totals"`
	Breakdown map[string][]Line `json:"breakdown"`
}

// Cheapest 最便宜的賣場
func (c Comparison) Cheapest() (Total, bool) {
	if len(c.Totals) == 0 {
		return Total{}, false
	}
	return c.Totals[0], true
}

// Compare 計算每個賣場購買這些食材的花費
//
// 每項花費與總價都四捨五入到小數第二位，總價為各項花費之和；同價時保持資料檔順序。
func (t *Table) Compare(ingredients catalog.Ingredients) Comparison {
	cmp := Comparison{
		Currency:  t.currency,
		Totals:    make([]Total, 0, len(t.retailers)),
		Breakdown: make(map[string][]Line, len(t.retailers)),
	}

	for _, retailer := range t.retailers {
		lines := make([]Line, 0, len(ingredients))
		sum := 0.0
		for _, ing := range ingredients {
			price, source := t.UnitPrice(retailer, ing.Key)
			cost := common.Round2(price * ing.Quantity)
			sum += cost
			lines = append(lines, Line{
				Ingredient: ing.Key,
				Quantity:   ing.Quantity,
				UnitPrice:  price,
				Cost:       cost,
				Source:     source,
			})
		}
		cmp.Breakdown[retailer.Name] = lines
		cmp.Totals = append(cmp.Totals, Total{Retailer: retailer.Name, Total: common.Round2(sum)})
	}

	sort.SliceStable(cmp.Totals, func(i, j int) bool {
		return cmp.Totals[i].Total < cmp.Totals[j].Total
	})

	if cheapest, ok := cmp.Cheapest(); ok {
		common.LogDebug("Prices compared",
			zap.Int("ingredients", len(ingredients)),
			zap.String("cheapest", cheapest.Retailer),
			zap.Float64("total", cheapest.Total),
		)
	}
	return cmp
}

// CompareQuantities 與 Compare 相同，食材依鍵名排序
func (t *Table) CompareQuantities(quantities map[string]float64) Comparison {
	keys := make([]string, 0, len(quantities))
	for k := range quantities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ingredients := make(catalog.Ingredients, len(keys))
	for i, k := range keys {
		ingredients[i] = catalog.Ingredient{Key: k, Quantity: quantities[k]}
	}
	return t.Compare(ingredients)
}
