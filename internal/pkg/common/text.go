package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ligatures = strings.NewReplacer(
	"œ", "oe",
	"æ", "ae",
	"’", "'",
	"‘", "'",
)

// Fold 將文字轉為小寫並移除重音符號，用於不區分大小寫與重音的比對
//
// "Bœuf Bourguignon" 與 "boeuf bourguignon" 折疊後相同。
func Fold(s string) string {
	s = ligatures.Replace(strings.ToLower(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Words 折疊後依非字母數字字元切分
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Padded 折疊並以單一空白串接詞彙，前後各補一個空白
//
// 以 " oui " 的形式比對時可避免 "go" 命中 "gourmand"。
func Padded(s string) string {
	return " " + strings.Join(Words(s), " ") + " "
}

// ContainsPhrase 檢查已 Padded 的文字是否包含完整詞組
func ContainsPhrase(padded, phrase string) bool {
	return strings.Contains(padded, Padded(phrase))
}
