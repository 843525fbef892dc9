package walker

import (
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/pathfilter"
)

// Walk lists the files under root in directory enumeration order. Excluded
// directories are pruned before they are read. A file root is returned as is
// unless excluded.
func Walk(root string, excludes []string) ([]string, error) {
	return walk(root, excludes, false)
}

// WalkRel is Walk with exclusion evaluated against root-relative paths. The
// returned paths are relative and use forward slashes.
func WalkRel(root string, excludes []string) ([]string, error) {
	return walk(root, excludes, true)
}

func walk(root string, excludes []string, rel bool) ([]string, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	name := func(p string) string {
		if !rel {
			return p
		}
		r, err := filepath.Rel(root, p)
		if err != nil {
			return p
		}
		return filepath.ToSlash(r)
	}
	if !st.IsDir() {
		if !st.Mode().IsRegular() || pathfilter.Excluded(root, excludes) {
			return nil, nil
		}
		if rel {
			return []string{filepath.Base(root)}, nil
		}
		return []string{root}, nil
	}

	var out []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if pathfilter.Excluded(name(dir), excludes) {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debug().Str("path", dir).Err(err).Msg("skip unreadable directory")
			continue
		}
		for _, e := range entries {
			if isInfraName(e.Name()) {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if pathfilter.Excluded(name(p), excludes) {
				continue
			}
			switch {
			case e.IsDir():
				stack = append(stack, p)
			case e.Type().IsRegular():
				out = append(out, name(p))
			}
		}
	}
	return out, nil
}

// ExpandRoots resolves glob roots with doublestar and drops roots that do not
// exist. Literal roots keep their spelling.
func ExpandRoots(roots []string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if hasGlobMeta(r) {
			matches, err := doublestar.FilepathGlob(r)
			if err != nil {
				log.Debug().Str("root", r).Err(err).Msg("skip malformed root pattern")
				continue
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		if _, err := os.Stat(r); err != nil {
			log.Debug().Str("root", r).Err(err).Msg("skip missing root")
			continue
		}
		add(r)
	}
	return out
}

// Collect walks every root and drops files reached more than once through
// overlapping roots such as "." and "skills".
func Collect(roots, excludes []string) []string {
	var files []string
	seen := map[string]bool{}
	for _, r := range roots {
		fs, err := Walk(r, excludes)
		if err != nil {
			log.Debug().Str("root", r).Err(err).Msg("skip root")
			continue
		}
		for _, f := range fs {
			key := filepath.Clean(f)
			if abs, err := filepath.Abs(f); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, f)
		}
	}
	return files
}
