package common

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

var (
	unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	codeFencePattern   = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ExtractJSON 從模型回覆中取出 JSON 區塊
//
// 優先取 markdown code fence 內的內容，否則取第一個 '[' 或 '{' 到對應結尾。
func ExtractJSON(raw string) string {
	if m := codeFencePattern.FindStringSubmatch(raw); len(m) == 2 {
		raw = m[1]
	}
	raw = strings.TrimSpace(raw)

	start := strings.IndexAny(raw, "[{")
	if start < 0 {
		return raw
	}
	closer := "]"
	if raw[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(raw, closer)
	if end < start {
		return raw[start:]
	}
	return raw[start : end+1]
}
