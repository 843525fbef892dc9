// Package allowlist enforces the repository's .aoi-allowlist: the set of
// paths a change is permitted to touch.
package allowlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aoineco/openclaw-sec/internal/files"
	"github.com/aoineco/openclaw-sec/internal/pathfilter"
	"github.com/aoineco/openclaw-sec/internal/types"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// FileName is the allowlist file at the repository top level.
const FileName = ".aoi-allowlist"

// MaxViolations caps ALLOWLIST_VIOLATION findings per run.
const MaxViolations = 30

// List is a loaded allowlist. Lines are trimmed and non-blank; comment
// lines are kept and ignored at compile time.
type List struct {
	Root   string
	Path   string
	Exists bool
	Lines  []string
}

// Load reads the allowlist at root. A missing file is not an error.
func Load(root string) (List, error) {
	l := List{Root: root, Path: filepath.Join(root, FileName)}
	b, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return l, secerr.Wrap(err, secerr.CodeScanInternalFailure, "read allowlist", secerr.FieldPath(l.Path))
	}
	l.Exists = true
	l.Lines = splitLines(string(files.StripBOM(b)))
	return l, nil
}

func splitLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(strings.TrimSuffix(ln, "\r"))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// Matchers compiles the list.
func (l List) Matchers() pathfilter.Matchers {
	return pathfilter.CompileAllow(l.Lines)
}

// Allowed reports whether p is permitted by the list.
func (l List) Allowed(p string) bool {
	return l.Matchers().Allowed(p)
}

// MissingFinding is the block finding for a repository without an
// allowlist.
func (l List) MissingFinding() types.Finding {
	return types.Finding{
		ID:       types.IDAllowlistMissing,
		Severity: types.SevBlock,
		File:     l.Path,
		Pattern:  FileName,
		Excerpt:  "Missing " + FileName + " at repo root: " + l.Root,
	}
}

// NotARepoFinding is emitted when repo-only checks cannot run.
func NotARepoFinding() types.Finding {
	return types.Finding{
		ID:       types.IDNotAGitRepo,
		Severity: types.SevWarn,
		File:     ".",
		Pattern:  "git",
		Excerpt:  "Not inside a git repository; repo-only checks skipped.",
	}
}

// Enforce returns one block finding per changed path that is not excluded
// and not allowed by the list, up to MaxViolations. mode names the diff the
// paths came from and appears in the excerpt.
func (l List) Enforce(changed, excludes []string, mode string) []types.Finding {
	m := l.Matchers()
	var out []types.Finding
	for _, p := range changed {
		if pathfilter.Excluded(p, excludes) || m.Allowed(p) {
			continue
		}
		out = append(out, types.Finding{
			ID:       types.IDAllowlistViolation,
			Severity: types.SevBlock,
			File:     p,
			Pattern:  FileName,
			Excerpt:  fmt.Sprintf("Changed file not allowed by %s (%s)", FileName, mode),
		})
		if len(out) >= MaxViolations {
			break
		}
	}
	return out
}

// Append adds rule to the allowlist at root unless an identical line is
// already present. It reports whether the file changed.
func Append(root, rule string) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return false, secerr.New(secerr.CodeCLIInputMissing, "allowlist rule is empty")
	}
	p := filepath.Join(root, FileName)
	changed, err := files.AppendLine(p, pathfilter.Normalize(rule))
	if err != nil {
		return false, secerr.Wrap(err, secerr.CodeAllowlistWriteFailure, "append allowlist rule", secerr.FieldPath(p))
	}
	return changed, nil
}
