package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		value    float64
		from, to Unit
		want     float64
	}{
		{1.5, Kilogram, Gram, 1500},
		{250, Gram, Kilogram, 0.25},
		{2, Tablespoon, Milliliter, 30},
		{1, Cup, Milliliter, 240},
		{3, Teaspoon, Tablespoon, 1},
		{75, Centiliter, Liter, 0.75},
		{1, Pound, Gram, 453.59},
		{180, Celsius, Fahrenheit, 356},
		{350, Fahrenheit, Celsius, 176.67},
		{6, Thermostat, Celsius, 180},
		{200, Celsius, Thermostat, 6.67},
		{0, Celsius, Kelvin, 273.15},
		{12.5, Gram, Gram, 12.5},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, ok := Convert(tt.value, tt.from, tt.to)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvert_Unsupported(t *testing.T) {
	tests := []struct {
		from, to Unit
	}{
		{Kilogram, Milliliter},
		{Kilogram, Milligram},
		{Teaspoon, Cup},
		{Celsius, Gram},
		{Unit("bol"), Unit("bol")},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, ok := Convert(1, tt.from, tt.to)
			assert.False(t, ok)
			assert.Zero(t, got)
		})
	}
}

func TestConvert_RoundTripLinear(t *testing.T) {
	for p := range table {
		back, ok := table[pair{p.to, p.from}]
		require.True(t, ok, "%s->%s has no inverse", p.from, p.to)
		assert.InDelta(t, 10.0, back(table[p](10)), 1e-9, "%s<->%s", p.from, p.to)
	}
}

func TestParse(t *testing.T) {
	tests := map[string]Unit{
		"kg":               Kilogram,
		"Grammes":          Gram,
		"c. à s.":          Tablespoon,
		"cuillère à café":  Teaspoon,
		"°C":               Celsius,
		"Thermostat":       Thermostat,
		"tasse":            Cup,
		" litres ":         Liter,
		"pincée":           Pinch,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := Parse("poignée")
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestConvertNames(t *testing.T) {
	got, from, to, err := ConvertNames(2, "c.à.s", "ml")
	require.NoError(t, err)
	assert.Equal(t, Tablespoon, from)
	assert.Equal(t, Milliliter, to)
	assert.InDelta(t, 30, got, 1e-9)

	_, _, _, err = ConvertNames(1, "kg", "ml")
	assert.True(t, errors.Is(err, ErrNoConversion))

	_, _, _, err = ConvertNames(1, "kg", "brouette")
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []Unit{Gram, Pound}, Targets(Kilogram))
	assert.Empty(t, Targets(Unit("bol")))
}
