package rules

import (
	"regexp"
	"sync"
)

// sentinelTable is the prompt-injection sentinel rule table. Order decides
// the order of matched_rules in a verdict.
var sentinelTable = []struct {
	id      string
	level   Level
	action  Action
	pattern string
	reason  string
}{
	{
		id:      "R1_SYSTEM_OVERRIDE",
		level:   LevelHigh,
		action:  ActionBlock,
		pattern: `\b(ignore|disregard|override)\b\s+(the\s+)?(system|developer)\s+(prompt|instructions)`,
		reason:  "Attempt to override system/developer instructions",
	},
	{
		id:      "R2_SECRET_EXFIL",
		level:   LevelCrit,
		action:  ActionBlock,
		pattern: `\b(api\s*key|token|password|secret|private\s*key|seed\s*phrase|mnemonic)\b`,
		reason:  "Attempt to access or exfiltrate secrets",
	},
	{
		id:      "R3_FILE_HARVEST",
		level:   LevelHigh,
		action:  ActionBlock,
		pattern: `(\.env\b|id_rsa\b|openclaw\.json\b|ssh/|~/.ssh\b)`,
		reason:  "Sensitive file/path harvesting",
	},
	{
		id:      "R4_SHELL_EXEC",
		level:   LevelMed,
		action:  ActionWarn,
		pattern: `\b(rm\s+-rf|curl\s+http|wget\s+http|chmod\s+\+x|bash\s+-c|powershell)\b`,
		reason:  "Shell execution / download instruction pattern",
	},
	{
		id:      "R5_SOCIAL_ENGINEERING",
		level:   LevelMed,
		action:  ActionWarn,
		pattern: `\b(you already approved|keep going|do the rest|no need to ask|trust me)\b`,
		reason:  "Social-engineering style escalation attempt",
	},
}

var (
	sentinelOnce  sync.Once
	sentinelRules []Rule
)

// Sentinel returns the compiled sentinel rules. The table is static, so a
// compile failure is a programming error and panics.
func Sentinel() []Rule {
	sentinelOnce.Do(func() {
		for _, r := range sentinelTable {
			sentinelRules = append(sentinelRules, Rule{
				ID:      r.id,
				Class:   ClassPrompt,
				Level:   r.level,
				Action:  r.action,
				Pattern: regexp.MustCompile("(?i)" + r.pattern),
				Reason:  r.reason,
			})
		}
	})
	return sentinelRules
}
