// Package uzbek holds the language-specific text handling used by the dialogue
// controller: Cyrillic to Latin transliteration and numeral-word parsing.
package uzbek

import "strings"

// cyrillicToLatin maps lower-case Uzbek Cyrillic letters to their Latin spelling.
// Upper-case input is lowered before the lookup, so only lower-case keys are needed.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "j", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "x", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'ъ': "", 'ы': "i",
	'ь': "", 'э': "e", 'ю': "yu", 'я': "ya", 'қ': "q", 'ғ': "g'", 'ҳ': "h",
	'ў': "o'",
}

// Normalize lower-cases text and transliterates Uzbek Cyrillic to Latin.
// Runes outside the table pass through unchanged.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

