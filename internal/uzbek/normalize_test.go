package uzbek

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Салом", "salom"},
		{"КРЕДИТ ЛИМИТИ", "kredit limiti"},
		{"Қарз олиш", "qarz olish"},
		{"Ёрдам", "yordam"},
		{"ғалаба", "g'alaba"},
		{"ўн", "o'n"},
		{"Ҳа, 127!", "ha, 127!"},
		{"Salom Dunyo", "salom dunyo"},
		{"объект", "obekt"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.in), "in=%q", tc.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Ассалому алайкум, менинг ID рақамим бир юз йигирма етти",
		"Kredit LIMITI qancha?",
		"ЦЕХ ЧОЙ ШАХАР ЮЗ ЯНГИ",
		"mixed Латин va кирилл 42",
		"\tпробел  \n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "in=%q", in)
	}
}

func TestNormalize_TableLettersMapToLatin(t *testing.T) {
	for cyr, latin := range cyrillicToLatin {
		require.Equal(t, latin, Normalize(string(cyr)), "letter=%q", cyr)
		require.Equal(t, latin, Normalize(strings.ToUpper(string(cyr))), "upper letter=%q", cyr)
		for _, r := range latin {
			require.True(t, r < unicode.MaxASCII, "letter %q maps to non-ASCII %q", cyr, latin)
		}
	}
}

func TestNormalize_LatinIsOnlyLowerCased(t *testing.T) {
	in := "The Quick Brown Fox, O'ZBEKISTON 2024 g'alaba!"
	require.Equal(t, strings.ToLower(in), Normalize(in))
}
