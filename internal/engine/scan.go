package engine

import (
	"bytes"
	"os"
	"strings"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/diff"
	"github.com/aoineco/openclaw-sec/internal/pathfilter"
	"github.com/aoineco/openclaw-sec/internal/redact"
	"github.com/aoineco/openclaw-sec/internal/rules"
	"github.com/aoineco/openclaw-sec/internal/types"
	"github.com/aoineco/openclaw-sec/internal/urlcheck"
)

// MaxFileBytes is the largest file read by a file-mode scan.
const MaxFileBytes = 1 << 20

// Hit caps. A capped scan is a complete result, not an error.
const (
	maxHitsPerFile = 20
	maxHitsFiles   = 50
	maxHitsDiff    = 30
	maxHitsText    = 30

	maxURLsPerFile = 10
	maxURLsFiles   = 40
	maxURLsPerLine = 5
	maxURLsDiff    = 30
	maxURLsText    = 30

	urlExtractMax = 80
)

// sensitiveMarkers escalate an egress hit to block when found in its path.
var sensitiveMarkers = []string{
	"/Users/",
	"~/.config/",
	".config/",
	"/opt/",
	"the-alpha-oracle/vault",
	"/vault/",
}

func isSensitivePath(p string) bool {
	for _, m := range sensitiveMarkers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

// escalate applies the sensitive-path policy to egress findings.
func escalate(fs []types.Finding) []types.Finding {
	for i := range fs {
		if fs[i].ID == types.IDEgressPattern && isSensitivePath(fs[i].File) {
			fs[i].Severity = types.SevBlock
		}
	}
	return fs
}

// readText returns the file's content when it is small enough and looks
// like text. Anything else is skipped silently.
func readText(p string) (string, bool) {
	st, err := os.Stat(p)
	if err != nil {
		log.Debug().Str("path", p).Err(err).Msg("skip unreadable file")
		return "", false
	}
	if st.Size() > MaxFileBytes {
		return "", false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.Debug().Str("path", p).Err(err).Msg("skip unreadable file")
		return "", false
	}
	if len(b) > MaxFileBytes || bytes.IndexByte(b, 0) >= 0 || isBinaryKind(b) {
		return "", false
	}
	return string(b), true
}

func isBinaryKind(b []byte) bool {
	kind, err := filetype.Match(b)
	if err != nil || kind == filetype.Unknown {
		return false
	}
	switch kind.MIME.Type {
	case "image", "audio", "video", "font", "application":
		return true
	}
	return false
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// excerpt masks every secret-class run, then the finding's own class, and
// truncates. Secrets go first so a class match cannot split one.
func excerpt(line string, set, secret rules.Set) string {
	return redact.Excerpt(redact.Mask(line, secret.Patterns()), set.Patterns())
}

// lineFinding matches one line and builds the finding for the first rule
// that hits. Prompt-class lines are normalized first.
func lineFinding(set, secret rules.Set, file string, lineNo int, line string) (types.Finding, bool) {
	if set.Class == rules.ClassPrompt {
		line = rules.Normalize(line)
	}
	r, ok := set.Match(line)
	if !ok {
		return types.Finding{}, false
	}
	return types.Finding{
		ID:       set.Class.FindingID(),
		Severity: r.Action.Severity(),
		File:     file,
		Line:     lineNo,
		Pattern:  r.Pattern.String(),
		Excerpt:  excerpt(line, set, secret),
	}, true
}

func scanLines(set, secret rules.Set, file, text string, max int) []types.Finding {
	var out []types.Finding
	for i, line := range splitLines(text) {
		f, ok := lineFinding(set, secret, file, i+1, line)
		if !ok {
			continue
		}
		out = append(out, f)
		if len(out) >= max {
			break
		}
	}
	return out
}

// ScanFiles runs set over every readable text file. At most 20 findings
// come from one file and at most 50 overall. Excerpts are masked with
// secret as well as set.
func ScanFiles(paths []string, set, secret rules.Set) []types.Finding {
	var out []types.Finding
	for _, p := range paths {
		text, ok := readText(p)
		if !ok {
			continue
		}
		out = append(out, scanLines(set, secret, p, text, maxHitsPerFile)...)
		if len(out) >= maxHitsFiles {
			break
		}
	}
	return escalate(capFindings(out, maxHitsFiles))
}

// ScanDiff runs set over the added lines of a parsed diff, skipping files
// that are excluded. Diff findings carry line 0.
func ScanDiff(files []diff.File, set, secret rules.Set, excludes []string) []types.Finding {
	var out []types.Finding
	for _, df := range files {
		if pathfilter.Excluded(df.Path, excludes) {
			continue
		}
		for _, line := range df.Added {
			f, ok := lineFinding(set, secret, df.Path, 0, line)
			if !ok {
				continue
			}
			out = append(out, f)
			if len(out) >= maxHitsDiff {
				return escalate(out)
			}
		}
	}
	return escalate(out)
}

// ScanText runs set over free text, such as a prompt. file names the
// source or is types.FileInput.
func ScanText(file, text string, set, secret rules.Set) []types.Finding {
	if file == "" {
		file = types.FileInput
	}
	return escalate(scanLines(set, secret, file, text, maxHitsText))
}

func scanURLs(file, text string, secret rules.Set, max int) []types.Finding {
	var out []types.Finding
	for _, u := range urlcheck.Extract(text, urlExtractMax) {
		tags := urlcheck.Classify(u)
		if len(tags) == 0 {
			continue
		}
		out = append(out, types.Finding{
			ID:       types.IDURLSuspicious,
			Severity: types.SevWarn,
			File:     file,
			Pattern:  urlcheck.Join(tags),
			Excerpt:  redact.Excerpt(u, secret.Patterns()),
		})
		if len(out) >= max {
			break
		}
	}
	return out
}

// ScanFileURLs tags suspicious URLs in every readable text file: up to 10
// per file and 40 overall.
func ScanFileURLs(paths []string, secret rules.Set) []types.Finding {
	var out []types.Finding
	for _, p := range paths {
		text, ok := readText(p)
		if !ok {
			continue
		}
		out = append(out, scanURLs(p, text, secret, maxURLsPerFile)...)
		if len(out) >= maxURLsFiles {
			break
		}
	}
	return capFindings(out, maxURLsFiles)
}

// ScanDiffURLs tags suspicious URLs on added diff lines: up to 5 per line
// and 30 overall.
func ScanDiffURLs(files []diff.File, secret rules.Set, excludes []string) []types.Finding {
	var out []types.Finding
	for _, df := range files {
		if pathfilter.Excluded(df.Path, excludes) {
			continue
		}
		for _, line := range df.Added {
			for _, f := range scanURLs(df.Path, line, secret, maxURLsPerLine) {
				out = append(out, f)
				if len(out) >= maxURLsDiff {
					return out
				}
			}
		}
	}
	return out
}

// ScanTextURLs tags suspicious URLs in free text, up to 30.
func ScanTextURLs(file, text string, secret rules.Set) []types.Finding {
	if file == "" {
		file = types.FileInput
	}
	return scanURLs(file, text, secret, maxURLsText)
}

func capFindings(fs []types.Finding, n int) []types.Finding {
	if len(fs) > n {
		return fs[:n]
	}
	return fs
}
