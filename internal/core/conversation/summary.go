package conversation

import (
	"fmt"
	"strings"
)

// summarize 外部模型不可用時的固定回覆
//
// 回覆中會出現食譜名稱，之後使用者回答「oui」時可從歷史找回。
func summarize(r *Reply, mentioned string) string {
	var parts []string

	if len(r.AddedAllergies) > 0 {
		parts = append(parts, fmt.Sprintf("C'est noté, j'évite: %s.", strings.Join(r.AddedAllergies, ", ")))
	}
	if r.Analysis.City != "" {
		parts = append(parts, fmt.Sprintf("Ville enregistrée: %s.", r.Analysis.City))
	}
	if len(r.QuickIdeas) > 0 {
		names := make([]string, len(r.QuickIdeas))
		for i, m := range r.QuickIdeas {
			names[i] = m.Recipe
		}
		parts = append(parts, fmt.Sprintf("Pas de panique, voici des idées rapides: %s.", strings.Join(names, ", ")))
	}

	switch {
	case r.Recipe != nil:
		parts = append(parts, fmt.Sprintf("On prépare %s pour %d personnes, budget %.2f EUR.",
			r.Recipe.Recipe, r.Recipe.Servings, r.Recipe.Budget))
		if r.Allergens != nil && !r.Allergens.Safe {
			parts = append(parts, fmt.Sprintf("Attention, allergènes: %s.", strings.Join(r.Allergens.Ingredients(), ", ")))
		}
	case mentioned != "":
		parts = append(parts, fmt.Sprintf("Tu veux préparer %s ?", mentioned))
	}

	if len(parts) == 0 {
		return "Dis-moi ce qui te ferait plaisir: une recette, un budget ou les ingrédients de ton frigo."
	}
	return strings.Join(parts, " ")
}
