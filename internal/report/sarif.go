package report

import (
	"encoding/json"
	"io"

	"github.com/aoineco/openclaw-sec/internal/types"
	"github.com/aoineco/openclaw-sec/internal/version"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt     `json:"artifactLocation"`
	Region           *sarifRegion `json:"region,omitempty"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

var ruleText = map[string]string{
	types.IDSecretPattern:         "Secret-like material",
	types.IDEgressPattern:         "Data egress indicator",
	types.IDPromptInjection:       "Prompt-injection phrasing",
	types.IDURLSuspicious:         "Suspicious URL",
	types.IDAllowlistMissing:      "Repository has no allowlist",
	types.IDAllowlistViolation:    "Changed path not in allowlist",
	types.IDNotAGitRepo:           "Repository checks skipped",
	types.IDIntegrityManifestMiss: "Integrity manifest missing",
	types.IDIntegrityMismatch:     "Integrity manifest mismatch",
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevBlock:
		return "error"
	case types.SevWarn:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes the findings as SARIF 2.1.0. The grade and the
// uncapped total go into run properties.
func WriteSARIF(w io.Writer, s Summary) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "openclaw-sec", Version: version.Version}},
		Results: []sarifResult{},
		Properties: map[string]any{
			"grade": s.Grade,
			"total": s.Total,
		},
	}
	index := map[string]int{}
	for _, f := range s.Findings {
		i, ok := index[f.ID]
		if !ok {
			i = len(run.Tool.Driver.Rules)
			index[f.ID] = i
			desc := ruleText[f.ID]
			if desc == "" {
				desc = f.ID
			}
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: f.ID, ShortDescription: sarifMessage{Text: desc}})
		}
		msg := f.Excerpt
		if msg == "" {
			msg = f.ID
		}
		phys := sarifPhys{ArtifactLocation: sarifArt{URI: f.File}}
		if f.Line > 0 {
			phys.Region = &sarifRegion{StartLine: f.Line}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.ID,
			RuleIndex: i,
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLoc{{PhysicalLocation: phys}},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
