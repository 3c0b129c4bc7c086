package pricing

// 價格來源名稱
const (
	SourceRetailer  = "retailer"
	SourceReference = "reference"
	SourceNone      = "none"
)

// Source 單一價格來源，找不到時回傳 false 交給下一個來源
type Source struct {
	Name   string
	Lookup func(retailer Retailer, key string) (float64, bool)
}

// DefaultSources 賣場價 → 全國參考價 → 0
//
// 沒有價格的食材以 0 計價，總價因此可能偏低。
func DefaultSources(t *Table) []Source {
	return []Source{
		{
			Name: SourceRetailer,
			Lookup: func(retailer Retailer, key string) (float64, bool) {
				p, ok := retailer.Prices[key]
				return p, ok
			},
		},
		{
			Name: SourceReference,
			Lookup: func(_ Retailer, key string) (float64, bool) {
				return t.Reference(key)
			},
		},
		{
			Name: SourceNone,
			Lookup: func(Retailer, string) (float64, bool) {
				return 0, true
			},
		},
	}
}
