package pricing

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"recipe-engine/internal/pkg/common"
)

//go:embed data/prices.yaml
var defaultData []byte

const cityPlaceholder = "{city}"

// ErrUnknownRetailer 找不到指定的賣場
var ErrUnknownRetailer = errors.New("unknown retailer")

// Retailer 賣場與其特價
type Retailer struct {
	Name    string             `yaml:"name" json:"name"`
	Locator string             `yaml:"locator" json:"locator"`
	Prices  map[string]float64 `yaml:"prices" json:"prices"`
}

// Table 食材單價表
type Table struct {
	currency  string
	retailers []Retailer
	reference map[string]float64
	sources   []Source
}

type tableFile struct {
	Currency  string             `yaml:"currency"`
	Retailers []Retailer         `yaml:"retailers"`
	Reference map[string]float64 `yaml:"reference"`
}

// Default 載入內嵌的價格資料
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultData))
}

// Load 從 YAML 載入價格表
func Load(r io.Reader) (*Table, error) {
	var file tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode price table: %w", err)
	}
	if len(file.Retailers) == 0 {
		return nil, errors.New("price table has no retailers")
	}

	seen := make(map[string]bool, len(file.Retailers))
	for _, ret := range file.Retailers {
		key := common.Fold(ret.Name)
		if key == "" || seen[key] {
			return nil, fmt.Errorf("invalid or duplicate retailer %q", ret.Name)
		}
		seen[key] = true
		if ret.Locator != "" && !strings.Contains(ret.Locator, cityPlaceholder) {
			return nil, fmt.Errorf("retailer %q locator lacks %s", ret.Name, cityPlaceholder)
		}
		if err := checkPrices(ret.Prices); err != nil {
			return nil, fmt.Errorf("retailer %q: %w", ret.Name, err)
		}
	}
	if err := checkPrices(file.Reference); err != nil {
		return nil, fmt.Errorf("reference prices: %w", err)
	}

	t := &Table{
		currency:  file.Currency,
		retailers: file.Retailers,
		reference: file.Reference,
	}
	t.sources = DefaultSources(t)
	return t, nil
}

func checkPrices(prices map[string]float64) error {
	for key, p := range prices {
		if p < 0 {
			return fmt.Errorf("negative price for %q", key)
		}
	}
	return nil
}

// Currency 幣別
func (t *Table) Currency() string {
	return t.currency
}

// Retailers 依資料檔順序列出賣場名稱
func (t *Table) Retailers() []string {
	names := make([]string, len(t.retailers))
	for i, r := range t.retailers {
		names[i] = r.Name
	}
	return names
}

// Retailer 依名稱取得賣場，不區分大小寫
func (t *Table) Retailer(name string) (Retailer, error) {
	key := common.Fold(strings.TrimSpace(name))
	for _, r := range t.retailers {
		if common.Fold(r.Name) == key {
			return r, nil
		}
	}
	return Retailer{}, fmt.Errorf("%w: %q", ErrUnknownRetailer, name)
}

// Reference 全國參考價
func (t *Table) Reference(key string) (float64, bool) {
	p, ok := t.reference[key]
	return p, ok
}

// UnitPrice 依價格來源順序找出單價，回傳單價與來源名稱
func (t *Table) UnitPrice(retailer Retailer, key string) (float64, string) {
	for _, src := range t.sources {
		if p, ok := src.Lookup(retailer, key); ok {
			return p, src.Name
		}
	}
	return 0, SourceNone
}

// StoreLink 產生賣場在指定城市的地圖搜尋連結
func (t *Table) StoreLink(retailer, city string) (string, error) {
	r, err := t.Retailer(retailer)
	if err != nil {
		return "", err
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return "", errors.New("city is required")
	}
	if r.Locator == "" {
		return "", fmt.Errorf("retailer %q has no locator", r.Name)
	}
	return strings.ReplaceAll(r.Locator, cityPlaceholder, url.QueryEscape(city)), nil
}
