package report

import "github.com/aoineco/openclaw-sec/internal/types"

// Grade aggregates findings: BLOCK if any finding blocks, else WARN if any
// warns, else PASS. Severities other than block and warn do not count.
func Grade(findings []types.Finding) types.Grade {
	warn := false
	for _, f := range findings {
		switch f.Severity {
		case types.SevBlock:
			return types.GradeBlock
		case types.SevWarn:
			warn = true
		}
	}
	if warn {
		return types.GradeWarn
	}
	return types.GradePass
}
