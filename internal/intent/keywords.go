package intent

const defaultLookback = 4

// Keywords parameterizes the classifier. All entries are lower-case Latin and
// matched as substrings, so suffixed forms ("kreditni", "limiti") still match.
type Keywords struct {
	Greeting   []string
	Thanks     []string
	BotInfo    []string
	BotName    []string
	BotCreator []string
	Reason     []string
	Credit     []string
	CreditWord string
	// NotFoundMarker marks a recent reply that reported an unknown ID.
	NotFoundMarker string
	// Lookback is how many history turns keep a credit topic alive.
	Lookback int
}

func DefaultKeywords() Keywords {
	return Keywords{
		Greeting:       []string{"salom", "assalom", "assalomu alaykum", "assalomu aleykum"},
		Thanks:         []string{"rahmat", "tashakkur"},
		BotInfo:        []string{"isming", "kim", "nomi", "quruvchi", "ishlab chiqaruvchi", "developer"},
		BotName:        []string{"ism", "nomi"},
		BotCreator:     []string{"quruvchi", "ishlab chiqaruvchi", "developer"},
		Reason:         []string{"nima uchun", "negadir", "nima sababdan", "qanday qilib", "why", "how"},
		Credit:         []string{"kredit", "qarz", "limit", "pul olish"},
		CreditWord:     "kredit",
		NotFoundMarker: "topilmadi",
		Lookback:       defaultLookback,
	}
}
