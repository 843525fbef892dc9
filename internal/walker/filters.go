package walker

import "strings"

// infraNames are skipped during walks no matter what the exclude rules say.
var infraNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	".venv-wfb":    true,
	"venv":         true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".DS_Store":    true,
}

func isInfraName(name string) bool {
	return infraNames[name]
}

// hasGlobMeta reports whether a root should be expanded as a pattern.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
