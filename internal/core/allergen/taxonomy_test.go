package allergen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-engine/internal/core/catalog"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestDetect(t *testing.T) {
	tax := Default()

	tests := []struct {
		text string
		want []string
	}{
		{"Je suis intolérant au lactose", []string{"lactose"}},
		{"Attention, je suis cœliaque et allergique aux œufs", []string{"gluten", "oeufs"}},
		{"sans gluten et sans LAIT svp", []string{"lactose", "gluten"}},
		{"I have a nut allergy", []string{"fruits_a_coque"}},
		{"je ne supporte pas la crème ni le fromage", []string{"lactose"}},
		{"pas de cacahuète pour moi", []string{"arachides"}},
		{"j'évite le beurre et le sésame", []string{"lactose", "sesame"}},
		{"Je veux faire un Poisson Vapeur", []string{"poisson"}},
		{"Bonjour !", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.Detect(tt.text))
		})
	}
}

func TestCheck_QuicheLorraineLactose(t *testing.T) {
	tax := Default()
	quiche, err := loadCatalog(t).Get("Quiche Lorraine")
	require.NoError(t, err)

	report := tax.Check(quiche, []string{"lactose"})
	assert.False(t, report.Safe)
	assert.Equal(t, "Quiche Lorraine", report.Recipe)
	assert.Subset(t, report.Ingredients(), []string{"creme_kg", "lait_kg"})
	for _, f := range report.Flags {
		assert.Equal(t, "lactose", f.Class)
	}
}

func TestCheck_NoFalsePositives(t *testing.T) {
	tax := Default()
	cat := loadCatalog(t)

	var names []string
	for _, c := range tax.Classes() {
		names = append(names, c.Name)
	}

	for _, recipe := range cat.All() {
		report := tax.Check(recipe, names)
		for _, f := range report.Flags {
			class, ok := tax.Class(f.Class)
			require.True(t, ok)
			matched := false
			for _, k := range class.Keywords {
				if strings.Contains(f.Ingredient, k) {
					matched = true
				}
			}
			assert.True(t, matched, "%s: %s flagged for %s without keyword", recipe.Name, f.Ingredient, f.Class)
		}
	}

	ratatouille, err := cat.Get("Ratatouille")
	require.NoError(t, err)
	assert.True(t, tax.Check(ratatouille, names).Safe)

	harira, err := cat.Get("Harira")
	require.NoError(t, err)
	assert.True(t, tax.Check(harira, []string{"lactose"}).Safe)
}

func TestCheck_IgnoresUnknownAndDuplicateClasses(t *testing.T) {
	tax := Default()
	quiche, err := loadCatalog(t).Get("Quiche Lorraine")
	require.NoError(t, err)

	once := tax.Check(quiche, []string{"lactose"})
	twice := tax.Check(quiche, []string{"Lactose", "lactose", "unobtainium"})
	assert.Equal(t, once.Flags, twice.Flags)

	none := tax.Check(quiche, nil)
	assert.True(t, none.Safe)
	assert.Empty(t, none.Flags)
}

func TestNewValidation(t *testing.T) {
	_, err := New([]Class{{Name: "a", Keywords: []string{"x"}}, {Name: "A", Keywords: []string{"y"}}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]Class{{Name: "a"}})
	assert.ErrorContains(t, err, "no keywords")

	_, err = New([]Class{{Name: " ", Keywords: []string{"x"}}})
	assert.Error(t, err)
}
