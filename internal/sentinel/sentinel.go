// Package sentinel gives a single allow/log/warn/block verdict for a piece
// of text, such as a message an agent is about to act on.
package sentinel

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/aoineco/openclaw-sec/internal/rules"
)

// Kind identifies the verdict document.
const Kind = "prompt-injection-sentinel"

// Verdict is the outcome of Analyze. Severity is the highest matched
// level as an integer (0 SAFE to 4 CRIT); Action is the strongest matched
// action.
type Verdict struct {
	Kind         string       `json:"kind"`
	Severity     rules.Level  `json:"severity"`
	Action       rules.Action `json:"action"`
	Reasons      []string     `json:"reasons"`
	MatchedRules []string     `json:"matched_rules"`
	Fingerprint  string       `json:"fingerprint"`
}

// Analyze runs every sentinel rule over text. Matching sees the
// normalized text; the fingerprint is the SHA-256 of the text as given.
func Analyze(text string) Verdict {
	v := Verdict{
		Kind:         Kind,
		Severity:     rules.LevelSafe,
		Action:       rules.ActionAllow,
		Reasons:      []string{},
		MatchedRules: []string{},
	}
	norm := rules.Normalize(text)
	for _, r := range rules.Sentinel() {
		if !r.Pattern.MatchString(norm) {
			continue
		}
		v.MatchedRules = append(v.MatchedRules, r.ID)
		v.Reasons = append(v.Reasons, r.Reason)
		if r.Level > v.Severity {
			v.Severity = r.Level
		}
		if r.Action.Rank() > v.Action.Rank() {
			v.Action = r.Action
		}
	}
	sum := sha256.Sum256([]byte(text))
	v.Fingerprint = hex.EncodeToString(sum[:])
	return v
}

// Blocked reports whether the verdict asks the caller to refuse the text.
func (v Verdict) Blocked() bool { return v.Action == rules.ActionBlock }
