// Package urlcheck extracts URLs from free text and tags the ones that look
// like link shorteners, webhook endpoints or tracking/referral links.
package urlcheck

import (
	"net/url"
	"regexp"
	"strings"
)

// Tag is one heuristic classification of a URL.
type Tag string

const (
	TagShortlink Tag = "SHORTLINK"
	TagWebhook   Tag = "WEBHOOK_LIKE"
	TagTracking  Tag = "TRACKING_OR_REFERRAL"
)

// DefaultMax is the extraction limit used when callers pass 0.
const DefaultMax = 50

var (
	urlRe      = regexp.MustCompile(`(?i)https?://[^\s)\]}>"']+`)
	trailingRe = regexp.MustCompile(`[.,;:!?]+$`)
	utmRe      = regexp.MustCompile(`\butm_[a-z_]+=`)
	referralRe = regexp.MustCompile(`(?i)[?&](ref|aff|affiliate|invite|code)=`)
)

var shorteners = map[string]bool{
	"t.co":        true,
	"bit.ly":      true,
	"tinyurl.com": true,
	"goo.gl":      true,
	"is.gd":       true,
	"ow.ly":       true,
	"buff.ly":     true,
	"rebrand.ly":  true,
	"linktr.ee":   true,
}

// Extract returns up to max distinct URLs in order of first appearance.
// Trailing sentence punctuation is stripped.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}
	var out []string
	seen := map[string]bool{}
	for _, m := range urlRe.FindAllString(text, -1) {
		u := trailingRe.ReplaceAllString(strings.TrimSpace(m), "")
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

// Classify returns the tags that apply to raw. Host-based tags need a
// parseable URL; the tracking tag only looks at the raw string.
func Classify(raw string) []Tag {
	var tags []Tag
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host := strings.ToLower(u.Hostname())
		if shorteners[host] {
			tags = append(tags, TagShortlink)
		}
		if strings.Contains(host, "hooks.") || strings.Contains(raw, "/webhook") {
			tags = append(tags, TagWebhook)
		}
	}
	if utmRe.MatchString(raw) || referralRe.MatchString(raw) {
		tags = append(tags, TagTracking)
	}
	return tags
}

// Join renders tags the way findings carry them.
func Join(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
