package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"recipe-engine/internal/pkg/common"
)

// Origin 食譜產地
type Origin string

const (
	OriginMorocco Origin = "MA"
	OriginFrance  Origin = "FR"
)

// Label 顯示用名稱
func (o Origin) Label() string {
	switch o {
	case OriginMorocco:
		return "🇲🇦 Maroc"
	case OriginFrance:
		return "🇫🇷 France"
	}
	return string(o)
}

// Valid 是否為已知產地
func (o Origin) Valid() bool {
	return o == OriginMorocco || o == OriginFrance
}

// Difficulty 難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyAliases = map[string]Difficulty{
	"easy":      DifficultyEasy,
	"facile":    DifficultyEasy,
	"medium":    DifficultyMedium,
	"moyen":     DifficultyMedium,
	"moyenne":   DifficultyMedium,
	"hard":      DifficultyHard,
	"difficile": DifficultyHard,
}

// ParseDifficulty 解析英文或法文的難度名稱
func ParseDifficulty(s string) (Difficulty, error) {
	if d, ok := difficultyAliases[common.Fold(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Valid 是否為已知難度
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Label 法文顯示名稱
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Facile"
	case DifficultyMedium:
		return "Moyen"
	case DifficultyHard:
		return "Difficile"
	}
	return string(d)
}

// Season 季節或節慶
type Season string

const (
	SeasonAny      Season = "any"
	SeasonWinter   Season = "winter"
	SeasonSpring   Season = "spring"
	SeasonSummer   Season = "summer"
	SeasonAutumn   Season = "autumn"
	SeasonRamadan  Season = "ramadan"
	SeasonHolidays Season = "holidays"
)

var seasonAliases = map[string]Season{
	"any":       SeasonAny,
	"toute":     SeasonAny,
	"toutes":    SeasonAny,
	"winter":    SeasonWinter,
	"hiver":     SeasonWinter,
	"spring":    SeasonSpring,
	"printemps": SeasonSpring,
	"summer":    SeasonSummer,
	"ete":       SeasonSummer,
	"autumn":    SeasonAutumn,
	"automne":   SeasonAutumn,
	"fall":      SeasonAutumn,
	"ramadan":   SeasonRamadan,
	"holidays":  SeasonHolidays,
	"fetes":     SeasonHolidays,
	"noel":      SeasonHolidays,
}

var seasonLabels = map[Season]string{
	SeasonAny:      "Toute",
	SeasonWinter:   "Hiver",
	SeasonSpring:   "Printemps",
	SeasonSummer:   "Été",
	SeasonAutumn:   "Automne",
	SeasonRamadan:  "Ramadan",
	SeasonHolidays: "Fêtes",
}

// ParseSeason 解析英文或法文的季節名稱
func ParseSeason(s string) (Season, error) {
	if season, ok := seasonAliases[common.Fold(strings.TrimSpace(s))]; ok {
		return season, nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// Valid 是否為已知季節
func (s Season) Valid() bool {
	_, ok := seasonLabels[s]
	return ok
}

// Label 法文顯示名稱
func (s Season) Label() string {
	if l, ok := seasonLabels[s]; ok {
		return l
	}
	return string(s)
}

// unitSuffixes 食材鍵的單位後綴
var unitSuffixes = map[string]bool{
	"kg": true, "g": true, "l": true, "ml": true, "cl": true, "unite": true,
}

// Ingredient 食材與 4 人份用量，單位由鍵的後綴決定（例如 poulet_kg）
type Ingredient struct {
	Key      string  `json:"key"`
	Quantity float64 `json:"quantity"`
}

// Name 去掉單位後綴的可讀名稱，poulet_kg → poulet
func (i Ingredient) Name() string {
	base, _ := splitKey(i.Key)
	return strings.ReplaceAll(base, "_", " ")
}

// Unit 單位後綴，沒有則為空字串
func (i Ingredient) Unit() string {
	_, unit := splitKey(i.Key)
	return unit
}

func splitKey(key string) (string, string) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 {
		return key, ""
	}
	if unit := key[idx+1:]; unitSuffixes[unit] {
		return key[:idx], unit
	}
	return key, ""
}

// Ingredients 保持資料檔順序的食材清單
type Ingredients []Ingredient

// UnmarshalYAML 依原始順序讀取 key: quantity 映射
func (in *Ingredients) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: ingredients must be a mapping", node.Line)
	}
	out := make(Ingredients, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var qty float64
		if err := node.Content[i+1].Decode(&qty); err != nil {
			return fmt.Errorf("line %d: ingredient %q: %w", node.Content[i].Line, node.Content[i].Value, err)
		}
		out = append(out, Ingredient{Key: node.Content[i].Value, Quantity: qty})
	}
	*in = out
	return nil
}

// Quantities 轉為 key → 用量
func (in Ingredients) Quantities() map[string]float64 {
	m := make(map[string]float64, len(in))
	for _, ing := range in {
		m[ing.Key] = ing.Quantity
	}
	return m
}

// Keys 依順序列出食材鍵
func (in Ingredients) Keys() []string {
	keys := make([]string, len(in))
	for i, ing := range in {
		keys[i] = ing.Key
	}
	return keys
}

// Step 製作步驟
type Step struct {
	Title        string `yaml:"title" json:"title"`
	Instructions string `yaml:"instructions" json:"instructions"`
	Temperature  string `yaml:"temperature" json:"temperature,omitempty"`
	Duration     string `yaml:"duration" json:"duration,omitempty"`
	Tip          string `yaml:"tip" json:"tip,omitempty"`
}

// Recipe 食譜，載入後不可修改
type Recipe struct {
	Name        string      `yaml:"name" json:"name"`
	Origin      Origin      `yaml:"origin" json:"origin"`
	Category    string      `yaml:"category" json:"category"`
	Budget      float64     `yaml:"budget" json:"budget"`
	Duration    int         `yaml:"duration" json:"duration"`
	Difficulty  Difficulty  `yaml:"difficulty" json:"difficulty"`
	Seasons     []Season    `yaml:"seasons" json:"seasons"`
	Darija      string      `yaml:"darija" json:"darija,omitempty"`
	Ingredients Ingredients `yaml:"ingredients" json:"ingredients"`
	Steps       []Step      `yaml:"steps" json:"steps"`
	Note        string      `yaml:"note" json:"note,omitempty"`
}

// Clone 深複製，修改副本不影響目錄內的資料
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Seasons = append([]Season(nil), r.Seasons...)
	out.Ingredients = append(Ingredients(nil), r.Ingredients...)
	out.Steps = append([]Step(nil), r.Steps...)
	return &out
}

// InSeason 指定季節包含在食譜季節中，或食譜四季皆宜
func (r *Recipe) InSeason(s Season) bool {
	for _, rs := range r.Seasons {
		if rs == s || rs == SeasonAny {
			return true
		}
	}
	return false
}
