package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invisible strips zero-width and other invisible characters that would
// otherwise split a phrase past the matchers.
var invisible = strings.NewReplacer(
	"\u200b", "", // zero-width space
	"\u200c", "", // zero-width non-joiner
	"\u200d", "", // zero-width joiner
	"\ufeff", "", // BOM
	"\u00ad", "", // soft hyphen
	"\u034f", "", // combining grapheme joiner
	"\u061c", "", // Arabic letter mark
	"\u180e", "", // Mongolian vowel separator
	"\u2060", "", // word joiner
	"\u2061", "",
	"\u2062", "",
	"\u2063", "",
	"\u2064", "",
)

// Normalize folds compatibility forms (fullwidth letters, ligatures) with
// NFKC and removes invisible characters.
func Normalize(s string) string {
	return norm.NFKC.String(invisible.Replace(s))
}
