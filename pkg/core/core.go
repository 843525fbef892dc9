package core

import (
	"context"

	"github.com/aoineco/openclaw-sec/internal/engine"
	"github.com/aoineco/openclaw-sec/internal/integrity"
	"github.com/aoineco/openclaw-sec/internal/rules"
	"github.com/aoineco/openclaw-sec/internal/sentinel"
	"github.com/aoineco/openclaw-sec/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	Request  = engine.Request
	Input    = engine.Input
	Outcome  = engine.Outcome
	Mode     = engine.Mode
	Preset   = engine.Preset
	Finding  = types.Finding
	Grade    = types.Grade
	Verdict  = sentinel.Verdict
	Manifest = integrity.Manifest
	Result   = integrity.Result
)

const (
	ModeCheck        = engine.ModeCheck
	ModeSecrets      = engine.ModeSecrets
	ModeEgress       = engine.ModeEgress
	ModePrompt       = engine.ModePrompt
	ModeReleaseCheck = engine.ModeReleaseCheck

	PresetWorkspace = engine.PresetWorkspace
	PresetRepo      = engine.PresetRepo
)

// Scan runs one graded scan. When req.Rules is empty the embedded rule
// catalog is used.
func Scan(ctx context.Context, req Request) (Outcome, error) {
	if len(req.Rules.Secret.Rules)+len(req.Rules.Egress.Rules)+len(req.Rules.Prompt.Rules) == 0 {
		cat, err := rules.Default()
		if err != nil {
			return Outcome{}, err
		}
		req.Rules = cat
	}
	return engine.Run(ctx, req)
}

// ScanPrompt grades a single piece of text with the prompt-injection rules.
func ScanPrompt(ctx context.Context, text string) (Outcome, error) {
	return Scan(ctx, Request{Mode: ModePrompt, Input: &Input{Text: text}})
}

// Analyze classifies text with the prompt-injection sentinel.
func Analyze(text string) Verdict { return sentinel.Analyze(text) }

// InitManifest hashes root and writes the integrity manifest to out.
func InitManifest(root, out string, excludes []string) (Manifest, error) {
	return integrity.Init(root, out, excludes)
}

// CheckManifest compares root against the manifest at path.
func CheckManifest(root, path string, excludes []string) (Result, error) {
	return integrity.Check(root, path, excludes)
}
