// Package core provides a small, stable facade over openclaw-sec's internal
// engine for integrations that want to gate content without shelling out to
// the CLI.
//
// Example:
//
//	out, err := core.Scan(ctx, core.Request{Mode: core.ModeCheck, Roots: []string{"."}})
//	if err != nil { /* handle */ }
//	_ = core.MarshalOutcome(os.Stdout, out)
//	os.Exit(out.Grade.ExitCode())
package core
