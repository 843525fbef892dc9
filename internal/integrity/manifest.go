// Package integrity builds and verifies a content-hashed manifest of a
// directory tree, used to detect drift in a released tree.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/version"
	"github.com/aoineco/openclaw-sec/internal/walker"
)

// DefaultManifest is the manifest file name. It is always excluded from the
// tree it describes.
const DefaultManifest = "integrity_manifest.json"

// MaxFileBytes is the largest file hashed into a manifest.
const MaxFileBytes = 2 << 20

// Entry is one hashed file.
type Entry struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

// Manifest is a snapshot of a tree. Entries are sorted by path.
type Manifest struct {
	Version   string  `json:"version"`
	CreatedAt string  `json:"created_at"`
	Root      string  `json:"root"`
	Entries   []Entry `json:"entries"`
}

// Reason classifies a mismatch.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonHashMismatch Reason = "hash_mismatch"
	ReasonUnexpected   Reason = "unexpected"
)

// Mismatch is one path whose state differs from the stored manifest.
type Mismatch struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
}

// ErrNotFound is the Result.Error value for an absent manifest.
const ErrNotFound = "manifest_not_found"

// Result is the outcome of Check.
type Result struct {
	OK           bool       `json:"ok"`
	Error        string     `json:"error,omitempty"`
	Mismatches   []Mismatch `json:"mismatches,omitempty"`
	ManifestPath string     `json:"manifest_path"`
}

// NotFound reports whether the manifest file was absent.
func (r Result) NotFound() bool { return r.Error == ErrNotFound }

// Build hashes every file under root that survives the walk and the
// excludes. Unreadable files and the manifest itself are skipped.
func Build(root string, excludes []string) (Manifest, error) {
	ex := append(append([]string{}, excludes...), DefaultManifest)
	paths, err := walker.WalkRel(root, ex)
	if err != nil {
		return Manifest{}, err
	}
	rels := paths[:0]
	for _, p := range paths {
		if p == "" || p == "." || strings.HasPrefix(p, "..") {
			continue
		}
		rels = append(rels, p)
	}
	sort.Strings(rels)

	m := Manifest{
		Version:   version.Version,
		CreatedAt: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Root:      ".",
		Entries:   []Entry{},
	}
	for _, rel := range rels {
		e, ok := hashFile(filepath.Join(root, filepath.FromSlash(rel)))
		if !ok {
			continue
		}
		e.Path = rel
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

func hashFile(p string) (Entry, bool) {
	f, err := os.Open(p)
	if err != nil {
		log.Debug().Str("path", p).Err(err).Msg("skip unreadable file")
		return Entry{}, false
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil || st.Size() > MaxFileBytes {
		return Entry{}, false
	}
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		log.Debug().Str("path", p).Err(err).Msg("skip unreadable file")
		return Entry{}, false
	}
	return Entry{SHA256: hex.EncodeToString(h.Sum(nil)), Bytes: n}, true
}

// selfExcludes returns rules that keep the manifest file out of its own
// tree, both as given and relative to root.
func selfExcludes(root, manifestPath string) []string {
	rules := []string{manifestPath}
	absRoot, err1 := filepath.Abs(root)
	absOut, err2 := filepath.Abs(manifestPath)
	if err1 == nil && err2 == nil {
		if rel, err := filepath.Rel(absRoot, absOut); err == nil && !strings.HasPrefix(rel, "..") {
			rules = append(rules, filepath.ToSlash(rel))
		}
	}
	return rules
}

// Init builds a manifest of root and writes it to out.
func Init(root, out string, excludes []string) (Manifest, error) {
	ex := append(append([]string{}, excludes...), selfExcludes(root, out)...)
	m, err := Build(root, ex)
	if err != nil {
		return Manifest{}, err
	}
	if err := (Store{Path: out}).Save(m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Check compares the stored manifest with the current state of root.
// An absent manifest yields a NotFound result; an unparsable one an error.
func Check(root, manifestPath string, excludes []string) (Result, error) {
	stored, found, err := (Store{Path: manifestPath}).Load()
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{OK: false, Error: ErrNotFound, ManifestPath: manifestPath}, nil
	}
	ex := append(append([]string{}, excludes...), selfExcludes(root, manifestPath)...)
	current, err := Build(root, ex)
	if err != nil {
		return Result{}, err
	}
	mm := Diff(stored, current)
	return Result{OK: len(mm) == 0, Mismatches: mm, ManifestPath: manifestPath}, nil
}

// Diff compares two manifests as path-to-hash sets. Stored paths are
// reported in stored order, then unexpected paths in current order.
func Diff(stored, current Manifest) []Mismatch {
	want := make(map[string]string, len(stored.Entries))
	for _, e := range stored.Entries {
		want[e.Path] = e.SHA256
	}
	got := make(map[string]string, len(current.Entries))
	for _, e := range current.Entries {
		got[e.Path] = e.SHA256
	}
	var out []Mismatch
	seen := map[string]bool{}
	for _, e := range stored.Entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		h, ok := got[e.Path]
		switch {
		case !ok:
			out = append(out, Mismatch{Path: e.Path, Reason: ReasonMissing})
		case h != want[e.Path]:
			out = append(out, Mismatch{Path: e.Path, Reason: ReasonHashMismatch})
		}
	}
	for _, e := range current.Entries {
		if _, ok := want[e.Path]; !ok {
			out = append(out, Mismatch{Path: e.Path, Reason: ReasonUnexpected})
		}
	}
	return out
}
