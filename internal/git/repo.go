// Package git answers the few questions openclaw-sec asks of version
// control: where the work tree starts, whether a directory is inside one,
// and what a unified diff looks like in a given mode. Every query is
// best-effort; failures read as "not a repository" or an empty diff.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"

	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// DiffMode selects which comparison produces the diff.
type DiffMode string

const (
	ModeNone     DiffMode = ""
	ModeStaged   DiffMode = "staged"
	ModeHead     DiffMode = "head"
	ModeWorktree DiffMode = "worktree"
)

// ParseDiffMode validates a user-supplied mode. The empty string is ModeNone.
func ParseDiffMode(s string) (DiffMode, error) {
	switch m := DiffMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNone, ModeStaged, ModeHead, ModeWorktree:
		return m, nil
	}
	return ModeNone, secerr.Errorf(secerr.CodeCLIInputInvalid, "unknown diff mode %q (want staged, head or worktree)", s)
}

func (m DiffMode) args() []string {
	switch m {
	case ModeStaged:
		return []string{"diff", "--cached", "-U0"}
	case ModeHead:
		return []string{"diff", "HEAD", "-U0"}
	case ModeWorktree:
		return []string{"diff", "-U0"}
	}
	return nil
}

// validateRoot validates and normalizes a directory path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// TopLevel returns the work-tree root containing dir.
func TopLevel(dir string) (string, bool) {
	abs, err := validateRoot(dir)
	if err != nil {
		log.Debug().Str("path", dir).Err(err).Msg("git top-level unavailable")
		return "", false
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		log.Debug().Str("path", abs).Err(err).Msg("not a git repository")
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no work tree
		log.Debug().Str("path", abs).Err(err).Msg("repository has no work tree")
		return "", false
	}
	root := wt.Filesystem.Root()
	gitDir := filepath.Join(root, ".git")
	if abs == gitDir || strings.HasPrefix(abs, gitDir+string(filepath.Separator)) {
		return "", false
	}
	return root, true
}

// InsideWorkTree reports whether dir lies inside a git work tree.
func InsideWorkTree(dir string) bool {
	_, ok := TopLevel(dir)
	return ok
}

// DiffText runs git diff for mode in dir and returns its output. A missing
// git binary, a failing command or ModeNone yield "".
func DiffText(dir string, mode DiffMode) string {
	args := mode.args()
	if args == nil {
		return ""
	}
	abs, err := validateRoot(dir)
	if err != nil {
		log.Debug().Str("path", dir).Err(err).Msg("git diff unavailable")
		return ""
	}
	full := append([]string{"-C", abs, "-c", "color.ui=never", "-c", "core.quotePath=false"}, args...)
	full = append(full, "--no-ext-diff")
	out, err := exec.Command("git", full...).Output()
	if err != nil {
		log.Debug().Str("mode", string(mode)).Err(err).Msg("git diff failed")
		return ""
	}
	return string(out)
}
