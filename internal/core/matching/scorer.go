package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/pkg/common"
)

const (
	defaultMaxFilterResults = 6
	defaultMaxScanResults   = 5
	minAvailableRunes       = 2
)

// Constraints 使用者的篩選條件，零值代表不限制
type Constraints struct {
	BudgetMax  *float64           `json:"budget_max,omitempty"`
	TimeMax    *int               `json:"time_max,omitempty"`
	Difficulty catalog.Difficulty `json:"difficulty,omitempty"`
	Season     catalog.Season     `json:"season,omitempty"`
}

// Match 篩選結果
type Match struct {
	Recipe string `json:"recipe"`
	Score  int    `json:"score"`
}

// Availability 依現有食材計算的可做程度
type Availability struct {
	Recipe  string   `json:"recipe"`
	Percent float64  `json:"percent"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Scorer 食譜篩選與排序
type Scorer struct {
	catalog          *catalog.Catalog
	maxFilterResults int
	maxScanResults   int
}

// Option Scorer 選項
type Option func(*Scorer)

// WithMaxFilterResults 設定篩選結果上限
func WithMaxFilterResults(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxFilterResults = n
		}
	}
}

// WithMaxScanResults 設定食材掃描結果上限
func WithMaxScanResults(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxScanResults = n
		}
	}
}

// New 建立 Scorer
func New(cat *catalog.Catalog, opts ...Option) *Scorer {
	s := &Scorer{
		catalog:          cat,
		maxFilterResults: defaultMaxFilterResults,
		maxScanResults:   defaultMaxScanResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter 依預算、時間、難度與季節篩選並排序
//
// 預算與時間為硬性條件；要求 Easy 時排除其他難度。難度或季節相符各加一分。
// 同分時保持目錄順序。
func (s *Scorer) Filter(c Constraints) []Match {
	matches := make([]Match, 0, s.catalog.Len())
	for _, r := range s.catalog.All() {
		if c.BudgetMax != nil && r.Budget > *c.BudgetMax {
			continue
		}
		if c.TimeMax != nil && r.Duration > *c.TimeMax {
			continue
		}
		if c.Difficulty == catalog.DifficultyEasy && r.Difficulty != catalog.DifficultyEasy {
			continue
		}

		score := 0
		if c.Difficulty != "" && r.Difficulty == c.Difficulty {
			score++
		}
		if c.Season != "" && r.InSeason(c.Season) {
			score++
		}
		matches = append(matches, Match{Recipe: r.Name, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > s.maxFilterResults {
		matches = matches[:s.maxFilterResults]
	}

	common.LogDebug("Recipes filtered",
		zap.Int("results", len(matches)),
		zap.String("difficulty", string(c.Difficulty)),
		zap.String("season", string(c.Season)),
	)
	return matches
}

// Scan 依現有食材（冰箱掃描或照片辨識）排序食譜
//
// 食材名稱與食材鍵任一方向包含即算相符；完全無相符的食譜不列出。
func (s *Scorer) Scan(available []string) []Availability {
	names := normalizeAvailable(available)
	if len(names) == 0 {
		return []Availability{}
	}

	results := make([]Availability, 0, s.catalog.Len())
	for _, r := range s.catalog.All() {
		a := Availability{Recipe: r.Name, Matched: []string{}, Missing: []string{}}
		for _, ing := range r.Ingredients {
			if matchesAny(common.Fold(ing.Name()), names) {
				a.Matched = append(a.Matched, ing.Key)
			} else {
				a.Missing = append(a.Missing, ing.Key)
			}
		}
		if len(a.Matched) == 0 {
			continue
		}
		a.Percent = common.Round2(float64(len(a.Matched)) * 100 / float64(len(r.Ingredients)))
		results = append(results, a)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Percent > results[j].Percent
	})
	if len(results) > s.maxScanResults {
		results = results[:s.maxScanResults]
	}

	common.LogDebug("Ingredients scanned",
		zap.Int("available", len(names)),
		zap.Int("results", len(results)),
	)
	return results
}

func normalizeAvailable(available []string) []string {
	seen := make(map[string]bool, len(available))
	names := make([]string, 0, len(available))
	for _, raw := range available {
		name := common.Fold(strings.TrimSpace(raw))
		name = catalog.Ingredient{Key: name}.Name()
		name = strings.Join(strings.Fields(name), " ")
		if utf8.RuneCountInString(name) < minAvailableRunes || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func matchesAny(ingredient string, available []string) bool {
	for _, name := range available {
		if strings.Contains(ingredient, name) || strings.Contains(name, ingredient) {
			return true
		}
	}
	return false
}
