package report

import (
	"fmt"
	"strings"

	"github.com/aoineco/openclaw-sec/internal/files"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// Markdown renders the report file. Excerpts are left out so the report
// can be shared without leaking matched content.
func Markdown(s Summary) string {
	var b strings.Builder
	b.WriteString("# openclaw-sec report\n\n")
	fmt.Fprintf(&b, "- Grade: **%s**\n", s.Grade)
	fmt.Fprintf(&b, "- Preset: %s\n", s.Preset)
	if s.Diff != "" {
		fmt.Fprintf(&b, "- Diff: %s\n", s.Diff)
	}
	fmt.Fprintf(&b, "- Scanned paths: %s\n\n", strings.Join(s.ScannedPaths, ", "))
	fmt.Fprintf(&b, "## Findings (%d)\n\n", len(s.Findings))
	for _, f := range s.Findings {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Fprintf(&b, "- [%s] %s — %s\n", f.Severity, f.ID, loc)
	}
	b.WriteString("\n")
	return b.String()
}

// WriteMarkdown writes the report file atomically.
func WriteMarkdown(path string, s Summary) error {
	if err := files.WriteAtomic(path, []byte(Markdown(s))); err != nil {
		return secerr.Wrap(err, secerr.CodeReportWriteFailure, "write report", secerr.FieldPath(path))
	}
	return nil
}
