package allowlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoineco/openclaw-sec/internal/types"
)

func TestLoad_MissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, l.Exists)
	f := l.MissingFinding()
	assert.Equal(t, types.IDAllowlistMissing, f.ID)
	assert.Equal(t, types.SevBlock, f.Severity)
	assert.Equal(t, filepath.Join(dir, FileName), f.File)
	assert.Equal(t, "Missing .aoi-allowlist at repo root: "+dir, f.Excerpt)
}

func TestLoad_TrimsAndDropsBlankLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("# docs\r\n scripts/ \n\nREADME.md"), 0o644))
	l, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, l.Exists)
	assert.Equal(t, []string{"# docs", "scripts/", "README.md"}, l.Lines)
	assert.True(t, l.Allowed("scripts/a.sh"))
	assert.True(t, l.Allowed("README.md"))
	assert.False(t, l.Allowed("sub/README.md"))
	assert.False(t, l.Allowed("src/a.js"))
}

func TestEnforce_DirectoryPrefix(t *testing.T) {
	got := List{Lines: []string{"scripts/"}}.Enforce([]string{"scripts/a.sh", "src/b.js"}, nil, "staged")
	require.Len(t, got, 1)
	assert.Equal(t, "src/b.js", got[0].File)
	assert.Equal(t, types.SevBlock, got[0].Severity)
	assert.Equal(t, FileName, got[0].Pattern)
	assert.Equal(t, "Changed file not allowed by .aoi-allowlist (staged)", got[0].Excerpt)
}

func TestEnforce_ExcludedPathsAreIgnored(t *testing.T) {
	got := List{}.Enforce([]string{"logs/run.log"}, []string{"*.log"}, "head")
	assert.Empty(t, got)
}

func TestEnforce_EmptyAllowlistAllowsNothing(t *testing.T) {
	changed := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		changed = append(changed, filepath.ToSlash(filepath.Join("f", string(rune('a'+i%26)), "x.txt")))
	}
	got := List{Lines: []string{"# only comments"}}.Enforce(changed, nil, "staged")
	assert.Len(t, got, MaxViolations)
}

func TestAppend(t *testing.T) {
	dir := t.TempDir()
	changed, err := Append(dir, "docs/")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = Append(dir, "docs/")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = Append(dir, "  ")
	assert.Error(t, err)
}

func TestNotARepoFinding(t *testing.T) {
	f := NotARepoFinding()
	assert.Equal(t, types.IDNotAGitRepo, f.ID)
	assert.Equal(t, types.SevWarn, f.Severity)
	assert.Equal(t, ".", f.File)
	assert.Equal(t, "git", f.Pattern)
}
