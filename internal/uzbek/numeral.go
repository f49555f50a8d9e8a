package uzbek

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// apostrophes seen in STT output and typed text, folded to ASCII before lookup.
var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "ʻ", "'", "ʼ", "'", "`", "'")

const conjunction = "va"

var numberWords = map[string]int{
	"nol": 0, "bir": 1, "ikki": 2, "uch": 3, "to'rt": 4, "besh": 5,
	"olti": 6, "yetti": 7, "sakkiz": 8, "to'qqiz": 9,
	"o'n": 10, "yigirma": 20, "o'ttiz": 30, "qirq": 40, "ellik": 50,
	"oltmish": 60, "yetmish": 70, "sakson": 80, "to'qson": 90,
	"yuz": 100, "yuzi": 100, "ming": 1000, "million": 1000000,
}

func isMagnitude(n int) bool {
	return n == 100 || n == 1000 || n == 1000000
}

// ParseNumber extracts a positive integer identifier from free-form Uzbek text.
//
// A run of ASCII digits wins over number words. Otherwise the first run of
// consecutive number words is folded into a value; leading non-number tokens
// are skipped and the run ends at the first non-number token after it began.
// The boolean is false when nothing usable was found or the value is zero.
func ParseNumber(text string) (int, bool) {
	text = apostropheReplacer.Replace(Normalize(strings.TrimSpace(text)))

	if run := digitRun.FindString(text); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return n, n > 0
		}
	}

	var run []int
	for _, token := range strings.Fields(text) {
		token = trimPunctuation(token)
		if token == "" || token == conjunction {
			continue
		}
		n, ok := numberWords[token]
		if !ok {
			if len(run) > 0 {
				break
			}
			continue
		}
		run = append(run, n)
	}
	if len(run) == 0 {
		return 0, false
	}

	total, current := 0, 0
	for _, n := range run {
		if isMagnitude(n) {
			if current == 0 {
				current = 1
			}
			total += current * n
			current = 0
			continue
		}
		current += n
	}
	total += current
	if total <= 0 {
		return 0, false
	}
	return total, true
}

func trimPunctuation(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return r != '\'' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
