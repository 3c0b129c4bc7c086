package allergen

import (
	"errors"
	"fmt"
	"strings"

	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/pkg/common"
)

// Class 過敏原類別
//
// Keywords 為已折疊的子字串，同時用於食材鍵與使用者文字；Mentions 是僅用於文字的額外說法（如 "coeliaque"）。
type Class struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Mentions []string `json:"-"`
}

// Flag 食譜中觸發過敏原的食材
type Flag struct {
	Class      string `json:"class"`
	Ingredient string `json:"ingredient"`
}

// Report 食譜過敏原檢查結果
type Report struct {
	Recipe string `json:"recipe"`
	Safe   bool   `json:"safe"`
	Flags  []Flag `json:"flags"`
}

// Ingredients 被標記的食材鍵（去重，依出現順序）
func (r Report) Ingredients() []string {
	seen := make(map[string]bool, len(r.Flags))
	var out []string
	for _, f := range r.Flags {
		if !seen[f.Ingredient] {
			seen[f.Ingredient] = true
			out = append(out, f.Ingredient)
		}
	}
	return out
}

// Taxonomy 過敏原分類表
type Taxonomy struct {
	classes []Class
	byName  map[string]int
}

// New 建立分類表，類別名稱不可重複且每類至少一個關鍵字
func New(classes []Class) (*Taxonomy, error) {
	t := &Taxonomy{
		classes: make([]Class, 0, len(classes)),
		byName:  make(map[string]int, len(classes)),
	}
	for _, c := range classes {
		name := common.Fold(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, errors.New("allergen class without name")
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("duplicate allergen class %q", c.Name)
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("allergen class %q has no keywords", c.Name)
		}
		folded := Class{Name: name, Label: c.Label}
		for _, k := range c.Keywords {
			folded.Keywords = append(folded.Keywords, common.Fold(k))
		}
		for _, m := range c.Mentions {
			folded.Mentions = append(folded.Mentions, common.Fold(m))
		}
		t.byName[name] = len(t.classes)
		t.classes = append(t.classes, folded)
	}
	return t, nil
}

// Default 內建的過敏原分類表
func Default() *Taxonomy {
	t, err := New(defaultClasses)
	if err != nil {
		panic(err)
	}
	return t
}

// Classes 依定義順序列出所有類別
func (t *Taxonomy) Classes() []Class {
	out := make([]Class, len(t.classes))
	copy(out, t.classes)
	return out
}

// Class 依名稱取得類別，不區分大小寫與重音
func (t *Taxonomy) Class(name string) (Class, bool) {
	idx, ok := t.byName[common.Fold(strings.TrimSpace(name))]
	if !ok {
		return Class{}, false
	}
	return t.classes[idx], true
}

// Detect 找出文字中提到的過敏原類別，依分類表順序回傳
//
// 任一關鍵字或額外說法出現在折疊後的文字中即視為命中。
func (t *Taxonomy) Detect(text string) []string {
	folded := common.Fold(text)
	var found []string
	for _, c := range t.classes {
		if containsAny(folded, c.Keywords) || containsAny(folded, c.Mentions) {
			found = append(found, c.Name)
		}
	}
	return found
}

// Check 以宣告的過敏原檢查食譜，未知類別會被忽略
func (t *Taxonomy) Check(recipe *catalog.Recipe, declared []string) Report {
	report := Report{Recipe: recipe.Name, Flags: []Flag{}}
	seen := make(map[string]bool, len(declared))
	for _, name := range declared {
		class, ok := t.Class(name)
		if !ok || seen[class.Name] {
			continue
		}
		seen[class.Name] = true
		for _, ing := range recipe.Ingredients {
			if class.matches(ing.Key) {
				report.Flags = append(report.Flags, Flag{Class: class.Name, Ingredient: ing.Key})
			}
		}
	}
	report.Safe = len(report.Flags) == 0
	return report
}

func (c Class) matches(ingredientKey string) bool {
	return containsAny(common.Fold(ingredientKey), c.Keywords)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
