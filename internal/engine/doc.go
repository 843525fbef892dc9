// Package engine runs the scan passes behind every gate command: secret and
// egress patterns over files or a git diff, URL heuristics, allowlist
// enforcement and the integrity manifest check. Run grades the combined
// findings. External consumers should use the facade in pkg/core.
package engine
