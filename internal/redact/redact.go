// Package redact masks matched secrets in text excerpts before they leave
// the scanner.
package redact

import (
	"regexp"
	"strings"
)

// MaxMask bounds the run of '*' that replaces one match, so the mask does
// not reveal the secret's length beyond this.
const MaxMask = 12

// MaxExcerpt is the longest excerpt, in runes, a finding may carry.
const MaxExcerpt = 240

// Mask replaces every match of every pattern in line with '*' repeated
// min(MaxMask, len(match)).
func Mask(line string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		line = re.ReplaceAllStringFunc(line, func(m string) string {
			n := len([]rune(m))
			if n > MaxMask {
				n = MaxMask
			}
			return strings.Repeat("*", n)
		})
	}
	return line
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Excerpt masks then truncates a line for use in a finding.
func Excerpt(line string, patterns []*regexp.Regexp) string {
	return Truncate(Mask(line, patterns), MaxExcerpt)
}
