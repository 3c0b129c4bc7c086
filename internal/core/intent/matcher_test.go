package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/pkg/common"
)

func newMatcher(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return New(cat, opts...)
}

func assistant(content string) session.Turn {
	return session.Turn{Role: session.RoleAssistant, Content: content}
}

func user(content string) session.Turn {
	return session.Turn{Role: session.RoleUser, Content: content}
}

func TestResolve_ConfirmedMention(t *testing.T) {
	m := newMatcher(t)

	got := m.Resolve("Je veux faire une Harira", nil)
	assert.Equal(t, Intent{Recipe: "Harira", Mentioned: "Harira", Confirmed: true}, got)
}

func TestResolve_MentionWithoutCue(t *testing.T) {
	m := newMatcher(t)

	got := m.Resolve("C'est quoi exactement une harira ?", nil)
	assert.False(t, got.Confirmed)
	assert.Empty(t, got.Recipe)
	assert.Equal(t, "Harira", got.Mentioned)
}

func TestResolve_AffirmationUsesHistory(t *testing.T) {
	m := newMatcher(t)

	history := []session.Turn{
		user("Une idée pour ce soir ?"),
		assistant("Je te propose une Pastilla, c'est un régal !"),
	}
	got := m.Resolve("oui", history)
	assert.Equal(t, Intent{Recipe: "Pastilla", Mentioned: "Pastilla", Confirmed: true, FromHistory: true}, got)

	t.Run("skips assistant turns without recipes", func(t *testing.T) {
		h := append(history, user("hmm"), assistant("Tu es sûr ?"))
		got := m.Resolve("Ok go !", h)
		assert.Equal(t, "Pastilla", got.Recipe)
		assert.True(t, got.FromHistory)
	})

	t.Run("ignores user turns", func(t *testing.T) {
		got := m.Resolve("oui", []session.Turn{user("je pense à une Harira")})
		assert.False(t, got.Confirmed)
	})

	t.Run("respects lookback window", func(t *testing.T) {
		short := newMatcher(t, WithLookback(1))
		h := append(history, user("attends"))
		assert.False(t, short.Resolve("oui", h).Confirmed)
		assert.True(t, m.Resolve("oui", h).Confirmed)
	})

	t.Run("newest recipe wins", func(t *testing.T) {
		h := append(history, assistant("Ou alors un Couscous Royal ?"))
		assert.Equal(t, "Couscous Royal", m.Resolve("d'accord", h).Recipe)
	})
}

func TestResolve_NoIntent(t *testing.T) {
	m := newMatcher(t)
	assert.Equal(t, Intent{}, m.Resolve("Bonjour, comment ça va ?", []session.Turn{assistant("Harira ?")}))
	assert.Equal(t, Intent{}, m.Resolve("oui", nil))
}

func TestDetectMention(t *testing.T) {
	m := newMatcher(t)

	tests := []struct {
		text   string
		recipe string
		exact  bool
	}{
		{"une harira bien chaude", "Harira", true},
		{"un bon BOEUF BOURGUIGNON", "Bœuf Bourguignon", true},
		{"du couscous pour dimanche", "Couscous Royal", false},
		// "Poulet" 出現在兩個食譜名稱中：先比匹配長度，再依目錄順序
		{"un tajine au poulet", "Tajine Poulet Citron", false},
		{"la buche de noel", "Bûche de Noël", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := m.DetectMention(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.recipe, got.Recipe)
			assert.Equal(t, tt.exact, got.Exact)
		})
	}

	_, ok := m.DetectMention("un thé à la menthe")
	assert.False(t, ok)
}

func TestDetectMention_LongestSpanWins(t *testing.T) {
	m := newMatcher(t)

	got, ok := m.DetectMention("plutôt poulet rôti que tajine")
	require.True(t, ok)
	assert.Equal(t, "Poulet Rôti", got.Recipe, "full name beats single words")
	assert.Equal(t, len("poulet roti"), got.Span)
}

func TestIsAffirmation(t *testing.T) {
	m := newMatcher(t)

	for _, text := range []string{"oui", "Oui !", "ok go", "d'accord merci", "Vas-y", "Yallah", "c'est parti", "yes please"} {
		assert.True(t, m.IsAffirmation(text), text)
	}
	for _, text := range []string{"", "non", "oui mais plus tard", "je veux une harira", "gourmand"} {
		assert.False(t, m.IsAffirmation(text), text)
	}
}

func TestHasActionCue(t *testing.T) {
	m := newMatcher(t)

	assert.True(t, m.HasActionCue("prépare-moi ça"))
	assert.True(t, m.HasActionCue("Guide-moi pour la harira"))
	assert.True(t, m.HasActionCue("let's cook"))
	assert.False(t, m.HasActionCue("la harira est gourmande"))
}

func TestStress(t *testing.T) {
	m := newMatcher(t)

	tests := []struct {
		text     string
		score    int
		stressed bool
	}{
		{"Je suis crevé et pressé, il faut que ce soit rapide", 3, true},
		{"je suis stressée et épuisée", 2, true},
		{"fais vite", 1, false},
		{"vite vite vite", 1, false},
		{"Bonjour", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := m.Stress(tt.text)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.stressed, got.Stressed)
		})
	}

	strict := newMatcher(t, WithStressThreshold(3))
	assert.False(t, strict.Stress("je suis stressée et épuisée").Stressed)
}

func TestDetectCity(t *testing.T) {
	m := newMatcher(t)

	city, ok := m.DetectCity("J'habite à Clermont-Ferrand depuis 2 ans")
	require.True(t, ok)
	assert.Equal(t, "Clermont-Ferrand", city)

	city, ok = m.DetectCity("je suis de lyon")
	require.True(t, ok)
	assert.Equal(t, "Lyon", city)

	_, ok = m.DetectCity("j'adore Paris")
	assert.False(t, ok, "a city without a residence cue is not a location")
}

func TestVocabularyTables(t *testing.T) {
	for name, table := range map[string][]string{
		"action":      ActionCues(),
		"affirmation": Affirmations(),
		"stress":      StressWords(),
	} {
		seen := map[string]bool{}
		for _, entry := range table {
			assert.Equal(t, common.Fold(entry), entry, "%s entry %q must be folded", name, entry)
			assert.Equal(t, strings.Join(common.Words(entry), " "), entry, "%s entry %q must be word-normalized", name, entry)
			assert.False(t, seen[entry], "%s entry %q duplicated", name, entry)
			seen[entry] = true
		}
	}
}
