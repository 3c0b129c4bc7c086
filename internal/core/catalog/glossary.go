package catalog

import (
	"strings"

	"recipe-engine/internal/pkg/common"
)

// 常用食材的 darija 名稱
var darijaWords = map[string]string{
	"tomate":         "matecha",
	"oignon":         "besla",
	"carotte":        "khizou",
	"pomme de terre": "batata",
	"poulet":         "djaj",
	"viande":         "l7em",
	"poisson":        "hout",
	"agneau":         "ghanem",
	"cumin":          "kamoun",
	"cannelle":       "karfa",
	"safran":         "zafran",
	"gingembre":      "skinjbir",
	"farine":         "dqiq",
	"huile":          "zit",
	"sel":            "mel7a",
	"poivre":         "ibzar",
}

// 廚房常用語
var darijaExpressions = map[string]string{
	"bienvenue":   "Marhaba bik !",
	"bon appetit": "Bsaha !",
	"delicieux":   "Benin bezzaf !",
	"commence":    "Yallah, nwellou !",
	"regarde":     "Chouf !",
	"facile":      "Sahel !",
	"excellent":   "Mezyan bezzaf !",
}

// Translation darija 查詢結果
type Translation struct {
	French string `json:"french"`
	Darija string `json:"darija"`
	Kind   string `json:"kind"`
}

// Translate 查詢法文詞彙的 darija 說法，食材鍵（如 tomates_kg）也可查詢
func Translate(word string) (Translation, bool) {
	w := common.Fold(strings.TrimSpace(word))
	if w == "" {
		return Translation{}, false
	}
	w = strings.ReplaceAll(w, "_", " ")
	if name := (Ingredient{Key: strings.ReplaceAll(w, " ", "_")}).Name(); name != "" {
		w = name
	}

	if d, ok := darijaWords[w]; ok {
		return Translation{French: w, Darija: d, Kind: "ingredient"}, true
	}
	if d, ok := darijaExpressions[w]; ok {
		return Translation{French: w, Darija: d, Kind: "expression"}, true
	}
	// 複數或複合名稱，如 tomates、viande mouton
	for fr, d := range darijaWords {
		if strings.HasPrefix(w, fr) {
			return Translation{French: fr, Darija: d, Kind: "ingredient"}, true
		}
	}
	return Translation{}, false
}
