package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"recipe-engine/internal/pkg/common"
)

var (
	// ErrNoConversion 兩個單位之間沒有直接換算
	ErrNoConversion = errors.New("no conversion between units")
	// ErrUnknownUnit 無法辨識的單位
	ErrUnknownUnit = errors.New("unknown unit")
)

// Unit 度量單位
type Unit string

const (
	Milligram  Unit = "mg"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Pinch      Unit = "pinch"
	Milliliter Unit = "ml"
	Centiliter Unit = "cl"
	Liter      Unit = "l"
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	Cup        Unit = "cup"
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
	Kelvin     Unit = "K"
	Thermostat Unit = "th"
)

var aliases = map[string]Unit{
	"mg": Milligram, "milligramme": Milligram, "milligrammes": Milligram,
	"g": Gram, "gr": Gram, "gramme": Gram, "grammes": Gram, "gram": Gram, "grams": Gram,
	"kg": Kilogram, "kilo": Kilogram, "kilos": Kilogram, "kilogramme": Kilogram, "kilogrammes": Kilogram,
	"oz": Ounce, "once": Ounce, "onces": Ounce, "ounce": Ounce, "ounces": Ounce,
	"lb": Pound, "lbs": Pound, "livre": Pound, "livres": Pound, "pound": Pound, "pounds": Pound,
	"pincee": Pinch, "pincees": Pinch, "pinch": Pinch,
	"ml": Milliliter, "millilitre": Milliliter, "millilitres": Milliliter,
	"cl": Centiliter, "centilitre": Centiliter, "centilitres": Centiliter,
	"l": Liter, "litre": Liter, "litres": Liter, "liter": Liter, "liters": Liter,
	"tsp": Teaspoon, "cac": Teaspoon, "c a c": Teaspoon, "cuillere a cafe": Teaspoon, "cuilleres a cafe": Teaspoon, "teaspoon": Teaspoon,
	"tbsp": Tablespoon, "cas": Tablespoon, "c a s": Tablespoon, "cuillere a soupe": Tablespoon, "cuilleres a soupe": Tablespoon, "tablespoon": Tablespoon,
	"cup": Cup, "cups": Cup, "tasse": Cup, "tasses": Cup,
	"c": Celsius, "celsius": Celsius,
	"f": Fahrenheit, "fahrenheit": Fahrenheit,
	"k": Kelvin, "kelvin": Kelvin,
	"th": Thermostat, "thermostat": Thermostat,
}

// Parse 解析單位名稱，接受法文、英文與縮寫（c.à.s、°C）
func Parse(s string) (Unit, error) {
	key := strings.Join(common.Words(s), " ")
	if u, ok := aliases[key]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

type pair struct {
	from, to Unit
}

type conversion func(float64) float64

func scale(factor float64) conversion {
	return func(v float64) float64 { return v * factor }
}

// table 直接換算表，不做遞移推導
var table = map[pair]conversion{}

func linear(from, to Unit, factor float64) {
	table[pair{from, to}] = scale(factor)
	table[pair{to, from}] = scale(1 / factor)
}

func affine(from, to Unit, forward, backward conversion) {
	table[pair{from, to}] = forward
	table[pair{to, from}] = backward
}

func init() {
	// 重量
	linear(Kilogram, Gram, 1000)
	linear(Gram, Milligram, 1000)
	linear(Pound, Gram, 453.592)
	linear(Pound, Kilogram, 0.453592)
	linear(Ounce, Gram, 28.3495)
	linear(Pound, Ounce, 16)
	linear(Pinch, Gram, 0.5)

	// 容量
	linear(Liter, Milliliter, 1000)
	linear(Liter, Centiliter, 100)
	linear(Centiliter, Milliliter, 10)
	linear(Tablespoon, Milliliter, 15)
	linear(Teaspoon, Milliliter, 5)
	linear(Tablespoon, Teaspoon, 3)
	linear(Cup, Milliliter, 240)
	linear(Cup, Tablespoon, 16)

	// 溫度
	affine(Celsius, Fahrenheit,
		func(c float64) float64 { return c*9/5 + 32 },
		func(f float64) float64 { return (f - 32) * 5 / 9 })
	affine(Celsius, Kelvin,
		func(c float64) float64 { return c + 273.15 },
		func(k float64) float64 { return k - 273.15 })
	// 法式烤箱刻度，每格 30°C
	affine(Thermostat, Celsius,
		func(th float64) float64 { return th * 30 },
		func(c float64) float64 { return c / 30 })
}

// Convert 換算數值，結果四捨五入到小數第二位；沒有直接換算時回傳 false
func Convert(value float64, from, to Unit) (float64, bool) {
	if from == to {
		if !supported(from) {
			return 0, false
		}
		return common.Round2(value), true
	}
	conv, ok := table[pair{from, to}]
	if !ok {
		return 0, false
	}
	return common.Round2(conv(value)), true
}

// ConvertNames 解析單位名稱後換算
func ConvertNames(value float64, from, to string) (float64, Unit, Unit, error) {
	f, err := Parse(from)
	if err != nil {
		return 0, "", "", err
	}
	t, err := Parse(to)
	if err != nil {
		return 0, "", "", err
	}
	out, ok := Convert(value, f, t)
	if !ok {
		return 0, f, t, fmt.Errorf("%w: %s → %s", ErrNoConversion, f, t)
	}
	return out, f, t, nil
}

// Targets 列出可由 from 直接換算的單位
func Targets(from Unit) []Unit {
	var out []Unit
	for p := range table {
		if p.from == from {
			out = append(out, p.to)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func supported(u Unit) bool {
	for p := range table {
		if p.from == u {
			return true
		}
	}
	return false
}
