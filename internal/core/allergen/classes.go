package allergen

// defaultClasses 依歐盟 14 種主要過敏原整理，關鍵字對應資料檔的食材鍵
var defaultClasses = []Class{
	{
		Name:     "lactose",
		Label:    "Lactose / produits laitiers",
		Keywords: []string{"lait", "creme", "beurre", "fromage", "gruyere", "smen", "yaourt", "mozzarella", "parmesan"},
		Mentions: []string{"lactose", "produits laitiers", "intolerant au lait", "intolerante au lait", "allergique au lait", "allergie au lait", "sans lait", "dairy"},
	},
	{
		Name:     "gluten",
		Label:    "Gluten",
		Keywords: []string{"farine", "semoule", "pain", "pate_", "vermicelle", "brick", "msemmen", "crepe", "chapelure", "ble_", "orge"},
		Mentions: []string{"gluten", "coeliaque", "celiaque", "celiac", "allergique au ble", "sans ble"},
	},
	{
		Name:     "oeufs",
		Label:    "Œufs",
		Keywords: []string{"oeuf"},
		Mentions: []string{"allergique aux oeufs", "allergie aux oeufs", "allergique a l'oeuf", "allergie a l'oeuf", "sans oeuf", "egg allergy", "allergic to eggs"},
	},
	{
		Name:     "fruits_a_coque",
		Label:    "Fruits à coque",
		Keywords: []string{"amande", "noix", "noisette", "pistache", "cajou"},
		Mentions: []string{"fruits a coque", "allergique aux noix", "allergie aux noix", "allergique aux amandes", "allergie aux amandes", "nut allergy", "allergic to nuts"},
	},
	{
		Name:     "arachides",
		Label:    "Arachides",
		Keywords: []string{"arachide", "cacahuete"},
		Mentions: []string{"allergique aux arachides", "allergie aux arachides", "allergique aux cacahuetes", "peanut allergy", "allergic to peanuts"},
	},
	{
		Name:     "poisson",
		Label:    "Poisson",
		Keywords: []string{"poisson", "thon", "anchois", "sardine", "saumon", "cabillaud", "merlu"},
		Mentions: []string{"allergique au poisson", "allergie au poisson", "fish allergy", "allergic to fish"},
	},
	{
		Name:     "crustaces",
		Label:    "Crustacés",
		Keywords: []string{"crevette", "crabe", "homard", "langoustine"},
		Mentions: []string{"allergique aux crustaces", "allergie aux crustaces", "allergique aux fruits de mer", "shellfish allergy"},
	},
	{
		Name:     "sesame",
		Label:    "Sésame",
		Keywords: []string{"sesame"},
		Mentions: []string{"allergique au sesame", "allergie au sesame", "sans sesame", "sesame allergy"},
	},
	{
		Name:     "celeri",
		Label:    "Céleri",
		Keywords: []string{"celeri"},
		Mentions: []string{"allergique au celeri", "allergie au celeri"},
	},
	{
		Name:     "moutarde",
		Label:    "Moutarde",
		Keywords: []string{"moutarde"},
		Mentions: []string{"allergique a la moutarde", "allergie a la moutarde"},
	},
	{
		Name:     "sulfites",
		Label:    "Sulfites",
		Keywords: []string{"vin_", "vinaigre"},
		Mentions: []string{"sulfite"},
	},
}
