package intent

// 以下詞表皆為折疊後（小寫、無重音）的詞組，以完整詞比對。

// actionCues 表示「我要做這道菜」的動作詞
var actionCues = []string{
	"prepare", "preparer", "preparons", "prepares",
	"cuisiner", "cuisine", "cuisinons",
	"faire", "fais", "fait", "faisons",
	"veux", "voudrais", "veut", "aimerais",
	"guide moi", "guide", "guider", "montre moi", "explique moi",
	"commence", "commencer", "commencons", "lance", "lancer",
	"cook", "make", "want", "start", "guide me",
}

// affirmations 單獨出現時代表同意上一則建議
var affirmations = []string{
	"oui", "ouais", "ok", "okay", "yes", "yep", "yeah", "go",
	"vas y", "allez", "allez y", "allons y", "yallah", "d accord", "dac",
	"c est parti", "carrement", "bien sur", "parfait", "volontiers",
	"avec plaisir", "pourquoi pas", "let s go", "lets go", "sure",
}

// fillers 可與同意詞一起出現的客套詞
var fillers = []string{
	"merci", "svp", "stp", "alors", "bon", "eh", "ben", "super", "top",
	"genial", "chef", "please", "thanks", "ah", "oh", "bah", "tres", "bien",
}

// stressWords 急迫、疲勞或困難的說法，每個詞條最多計一次
var stressWords = []string{
	"stress", "stresse", "stressee", "stressant", "stressed",
	"presse", "pressee", "vite", "rapide", "rapidement",
	"urgent", "urgence", "pas le temps", "pas de temps", "a la bourre",
	"fatigue", "fatiguee", "epuise", "epuisee", "creve", "crevee",
	"deborde", "debordee", "galere", "complique", "trop dur",
	"j en peux plus", "tired", "exhausted", "hurry", "rush", "busy", "overwhelmed",
}

// residenceCues 表示使用者在說明居住地
var residenceCues = []string{
	"j habite", "je vis", "je suis de", "je suis a", "i live in",
}

// cities 可辨識的城市
var cities = []string{
	"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes", "Strasbourg",
	"Montpellier", "Bordeaux", "Lille", "Rennes", "Reims", "Le Havre",
	"Clermont-Ferrand", "Gerzat", "Aubière", "Beaumont", "Cournon",
}

// ActionCues 回傳動作詞表的副本
func ActionCues() []string { return append([]string(nil), actionCues...) }

// Affirmations 回傳同意詞表的副本
func Affirmations() []string { return append([]string(nil), affirmations...) }

// StressWords 回傳壓力詞表的副本
func StressWords() []string { return append([]string(nil), stressWords...) }

// Cities 回傳可辨識城市的副本
func Cities() []string { return append([]string(nil), cities...) }
