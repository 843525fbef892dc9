package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcluded(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		rules []string
		want  bool
	}{
		{name: "bare glob matches top-level file", path: "run.log", rules: []string{"*.log"}, want: true},
		{name: "bare glob matches nested basename", path: "sub/run.log", rules: []string{"*.log"}, want: true},
		{name: "bare glob is anchored", path: "run.log.txt", rules: []string{"*.log"}, want: false},
		{name: "bare name matches basename", path: "a/b/secrets.env", rules: []string{"secrets.env"}, want: true},
		{name: "double star crosses separators", path: "skills/core/rules/x.txt", rules: []string{"skills/core/**"}, want: true},
		{name: "single star stays in segment", path: "docs/a/b.md", rules: []string{"*/b.md"}, want: false},
		{name: "single star matches one segment", path: "docs/b.md", rules: []string{"*/b.md"}, want: true},
		{name: "single star within segment", path: "docs/b.md", rules: []string{"docs/*.md"}, want: true},
		{name: "leading dot slash ignored", path: "./docs/b.md", rules: []string{"docs/*.md"}, want: true},
		{name: "backslashes normalized", path: `docs\b.md`, rules: []string{"docs/*.md"}, want: true},
		{name: "prefix fallback", path: "build-cache/x", rules: []string{"build-cache/"}, want: true},
		{name: "prefix fallback over-matches", path: "docsite/index.html", rules: []string{"docs"}, want: true},
		{name: "malformed rule keeps prefix fallback", path: "vendor[/x.go", rules: []string{"vendor[/**"}, want: true},
		{name: "malformed rule without prefix is skipped", path: "a.go", rules: []string{"[z"}, want: false},
		{name: "no rules", path: "a.go", rules: nil, want: false},
		{name: "blank rule ignored", path: "a.go", rules: []string{"  "}, want: false},
		{name: "unrelated", path: "src/main.go", rules: []string{"*.log", "docs/**"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.path, tt.rules))
		})
	}
}

func TestAllowlist(t *testing.T) {
	m := CompileAllow([]string{"scripts/"})
	var violations []string
	for _, p := range []string{"scripts/a.js", "docs/b.md"} {
		if !m.Allowed(p) {
			violations = append(violations, p)
		}
	}
	assert.Equal(t, []string{"docs/b.md"}, violations)
}

func TestAllowlistForms(t *testing.T) {
	m := CompileAllow([]string{
		"# comment",
		"",
		"docs/",
		"*.md",
		"skills/**/skill.json",
		"weird[name",
	})
	assert.Len(t, m, 4)

	assert.True(t, m.Allowed("docs/guide/intro.txt"))
	assert.True(t, m.Allowed("./README.md"))
	assert.False(t, m.Allowed("sub/README.md"), "globs are anchored to the full path")
	assert.True(t, m.Allowed("skills/a/b/skill.json"))
	assert.True(t, m.Allowed("weird[name"))
	assert.True(t, m.Allowed("nested/weird[name"))
	assert.False(t, m.Allowed("src/main.go"))
}

func TestAllowlistEmptyAllowsNothing(t *testing.T) {
	m := CompileAllow([]string{"# only comments", "   "})
	assert.Empty(t, m)
	assert.False(t, m.Allowed("anything.txt"))
}
