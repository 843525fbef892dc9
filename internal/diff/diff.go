// Package diff extracts added lines and changed paths from unified diff text
// as produced by git diff.
package diff

import (
	"regexp"
	"strings"

	"github.com/gitleaks/go-gitdiff/gitdiff"
	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/types"
)

// File is one changed file and its added lines, in diff order. Added lines
// carry no leading '+' and no line terminator.
type File struct {
	Path  string
	Added []string
}

// Parse splits diff text into files. Well-formed git output goes through
// go-gitdiff; anything it cannot structure is read line by line, tracking
// the current file from "+++ b/<path>" headers.
func Parse(text string) []File {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	files, err := parseGit(text)
	if err != nil {
		log.Debug().Err(err).Msg("diff parse failed, using header tracking")
		return parseLines(text)
	}
	if len(files) == 0 && hasAddedLine(text) {
		return parseLines(text)
	}
	return files
}

func parseGit(text string) ([]File, error) {
	ch, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	var out []File
	// drain fully; the parser goroutine blocks on unread files
	for f := range ch {
		if f == nil || f.IsDelete || f.NewName == "" {
			continue
		}
		file := File{Path: f.NewName}
		for _, frag := range f.TextFragments {
			for _, l := range frag.Lines {
				if l.Op != gitdiff.OpAdd {
					continue
				}
				file.Added = append(file.Added, trimEOL(l.Line))
			}
		}
		out = append(out, file)
	}
	return out, nil
}

var headerRe = regexp.MustCompile(`^\+\+\+\s+b/(.*)$`)

func parseLines(text string) []File {
	var out []File
	cur := -1
	current := func(name string) {
		out = append(out, File{Path: name})
		cur = len(out) - 1
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "+++ ") {
			// "/dev/null" targets keep the previous file context
			if m := headerRe.FindStringSubmatch(line); m != nil && m[1] != "" {
				current(m[1])
			}
			continue
		}
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		if cur < 0 {
			current(types.FileDiff)
		}
		out[cur].Added = append(out[cur].Added, line[1:])
	}
	return out
}

// ChangedPaths lists the distinct paths that receive content in the diff,
// in first-seen order. Deleted files and placeholder contexts are omitted.
func ChangedPaths(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range Parse(text) {
		if f.Path == types.FileDiff || f.Path == "/dev/null" || seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		out = append(out, f.Path)
	}
	return out
}

func hasAddedLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			return true
		}
	}
	return false
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
