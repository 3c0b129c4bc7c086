package assistant

import (
	"fmt"
	"strings"

	"recipe-engine/internal/core/allergen"
	"recipe-engine/internal/core/portion"
	"recipe-engine/internal/core/session"
)

// Brief 產生回覆所需的引擎訊號
type Brief struct {
	Message    string
	Profile    session.Profile
	History    []session.Turn
	Stressed   bool
	Mentioned  string
	Recipe     *portion.Scaled
	Darija     string
	Allergens  *allergen.Report
	QuickIdeas []string
}

const basePrompt = `Tu es Sarah, assistante culinaire professionnelle bi-culturelle France-Maroc.

Règles:
1. Utilise uniquement le prénom de l'utilisateur, jamais de surnom affectif.
2. Tutoiement professionnel simple.
3. Réponses concises (3-4 phrases maximum).
4. Emoji avec modération.
5. Darija uniquement pour les recettes marocaines, expressions simples.
6. Ne propose que les recettes listées dans le contexte quand il y en a.`

const visionPrompt = `Liste les ingrédients alimentaires visibles sur cette photo de frigo.
Réponds uniquement avec un tableau JSON de noms en français, au singulier et en minuscules,
par exemple ["poulet", "tomate", "oignon"]. Aucun autre texte.`

// systemPrompt 組合系統提示
func systemPrompt(b Brief) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)
	sb.WriteString("\n\nPROFIL:\n")
	if b.Profile.Name != "" {
		fmt.Fprintf(&sb, "- Prénom: %s\n", b.Profile.Name)
	}
	if b.Profile.City != "" {
		fmt.Fprintf(&sb, "- Ville: %s\n", b.Profile.City)
	}
	fmt.Fprintf(&sb, "- Personnes: %d\n", b.Profile.Servings)
	if len(b.Profile.Allergies) > 0 {
		fmt.Fprintf(&sb, "- Allergies: %s\n", strings.Join(b.Profile.Allergies, ", "))
	}

	sb.WriteString("\nCONTEXTE:\n")
	if b.Stressed {
		sb.WriteString("- L'utilisateur est pressé ou fatigué: rassure-le et reste très bref.\n")
		if len(b.QuickIdeas) > 0 {
			fmt.Fprintf(&sb, "- Idées rapides et faciles: %s\n", strings.Join(b.QuickIdeas, ", "))
		}
	}
	if b.Recipe != nil {
		fmt.Fprintf(&sb, "- Recette choisie: %s pour %d personnes (budget total %.2f EUR).\n",
			b.Recipe.Recipe, b.Recipe.Servings, b.Recipe.Budget)
		for _, ing := range b.Recipe.Ingredients {
			fmt.Fprintf(&sb, "  * %s: %.2f %s\n", ing.Name(), ing.Quantity, ing.Unit())
		}
		if b.Darija != "" {
			fmt.Fprintf(&sb, "- Expression darija: %s\n", b.Darija)
		}
		sb.WriteString("- Propose de guider l'utilisateur étape par étape.\n")
	} else if b.Mentioned != "" {
		fmt.Fprintf(&sb, "- L'utilisateur parle de %s sans confirmer: demande s'il veut la préparer.\n", b.Mentioned)
	}
	if b.Allergens != nil && !b.Allergens.Safe {
		fmt.Fprintf(&sb, "- ATTENTION allergènes dans %s: %s. Préviens l'utilisateur.\n",
			b.Allergens.Recipe, strings.Join(b.Allergens.Ingredients(), ", "))
	}
	return sb.String()
}
