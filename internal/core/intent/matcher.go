package intent

import (
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/pkg/common"
)

const (
	defaultStressThreshold = 2
	defaultLookback        = 6
	// 名稱中長度超過此值的單字可單獨觸發提及
	minWordRunes = 3
)

// Mention 文字中提到的食譜
type Mention struct {
	Recipe string `json:"recipe"`
	Span   int    `json:"span"`
	Exact  bool   `json:"exact"`
}

// Intent 意圖判斷結果
//
// Recipe 只在確認要做菜時填入；Mentioned 是只被提到但未確認的食譜。
type Intent struct {
	Recipe      string `json:"recipe,omitempty"`
	Mentioned   string `json:"mentioned,omitempty"`
	Confirmed   bool   `json:"confirmed"`
	FromHistory bool   `json:"from_history"`
}

// Stress 壓力訊號
type Stress struct {
	Score    int      `json:"score"`
	Stressed bool     `json:"stressed"`
	Words    []string `json:"words,omitempty"`
}

type recipeName struct {
	name   string
	folded string
	words  []string
}

// Matcher 文字意圖比對器，建立後唯讀，可並行使用
type Matcher struct {
	recipes         []recipeName
	stressThreshold int
	lookback        int
}

// Option Matcher 選項
type Option func(*Matcher)

// WithStressThreshold 設定判定為壓力的最少詞條數
func WithStressThreshold(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.stressThreshold = n
		}
	}
}

// WithLookback 設定同意詞回溯的對話則數
func WithLookback(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.lookback = n
		}
	}
}

// New 以目錄中的食譜名稱建立比對器
func New(cat *catalog.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		stressThreshold: defaultStressThreshold,
		lookback:        defaultLookback,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, name := range cat.Names() {
		folded := common.Fold(name)
		rn := recipeName{name: name, folded: folded}
		for _, w := range strings.Fields(folded) {
			if utf8.RuneCountInString(w) > minWordRunes {
				rn.words = append(rn.words, w)
			}
		}
		m.recipes = append(m.recipes, rn)
	}
	return m
}

// DetectMention 找出文字中提到的食譜，取比對長度最長者；長度相同時保留目錄中較前者
func (m *Matcher) DetectMention(text string) (Mention, bool) {
	folded := common.Fold(text)
	var best Mention
	for _, rn := range m.recipes {
		if strings.Contains(folded, rn.folded) {
			if span := utf8.RuneCountInString(rn.folded); span > best.Span {
				best = Mention{Recipe: rn.name, Span: span, Exact: true}
			}
			continue
		}
		for _, w := range rn.words {
			if !strings.Contains(folded, w) {
				continue
			}
			if span := utf8.RuneCountInString(w); span > best.Span {
				best = Mention{Recipe: rn.name, Span: span}
			}
		}
	}
	return best, best.Span > 0
}

// HasActionCue 文字是否包含動作或同意詞
func (m *Matcher) HasActionCue(text string) bool {
	padded := common.Padded(text)
	for _, cue := range actionCues {
		if common.ContainsPhrase(padded, cue) {
			return true
		}
	}
	for _, a := range affirmations {
		if common.ContainsPhrase(padded, a) {
			return true
		}
	}
	return false
}

// IsAffirmation 文字是否只有同意詞（可夾帶客套詞）
func (m *Matcher) IsAffirmation(text string) bool {
	padded := common.Padded(text)
	found := false
	for _, a := range sortedAffirmations {
		p := common.Padded(a)
		for strings.Contains(padded, p) {
			padded = strings.Replace(padded, p, " ", 1)
			found = true
		}
	}
	if !found {
		return false
	}
	for _, w := range strings.Fields(padded) {
		if !fillerSet[w] {
			return false
		}
	}
	return true
}

// Resolve 判斷使用者是否確認要做某道菜
//
// history 是本則訊息之前的對話，由舊到新。
func (m *Matcher) Resolve(text string, history []session.Turn) Intent {
	if mention, ok := m.DetectMention(text); ok {
		if m.HasActionCue(text) {
			return Intent{Recipe: mention.Recipe, Mentioned: mention.Recipe, Confirmed: true}
		}
		return Intent{Mentioned: mention.Recipe}
	}

	if !m.IsAffirmation(text) {
		return Intent{}
	}

	start := len(history) - m.lookback
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		turn := history[i]
		if turn.Role != session.RoleAssistant {
			continue
		}
		if mention, ok := m.DetectMention(turn.Content); ok {
			common.LogDebug("Affirmation resolved from history",
				zap.String("recipe", mention.Recipe),
				zap.Int("turns_back", len(history)-i),
			)
			return Intent{Recipe: mention.Recipe, Mentioned: mention.Recipe, Confirmed: true, FromHistory: true}
		}
	}
	return Intent{}
}

// Stress 計算文字中出現的壓力詞條數
func (m *Matcher) Stress(text string) Stress {
	padded := common.Padded(text)
	var words []string
	for _, w := range stressWords {
		if common.ContainsPhrase(padded, w) {
			words = append(words, w)
		}
	}
	return Stress{
		Score:    len(words),
		Stressed: len(words) >= m.stressThreshold,
		Words:    words,
	}
}

// DetectCity 使用者說明居住地時找出城市名稱
func (m *Matcher) DetectCity(text string) (string, bool) {
	padded := common.Padded(text)
	cued := false
	for _, cue := range residenceCues {
		if common.ContainsPhrase(padded, cue) {
			cued = true
			break
		}
	}
	if !cued {
		return "", false
	}
	for _, city := range cities {
		if common.ContainsPhrase(padded, city) {
			return city, true
		}
	}
	return "", false
}

var (
	// 長詞組優先，避免 "allez" 先吃掉 "allez y" 的一部分
	sortedAffirmations = func() []string {
		out := Affirmations()
		sort.SliceStable(out, func(i, j int) bool {
			return len(strings.Fields(out[i])) > len(strings.Fields(out[j]))
		})
		return out
	}()

	fillerSet = func() map[string]bool {
		set := make(map[string]bool, len(fillers))
		for _, f := range fillers {
			set[f] = true
		}
		return set
	}()
)
