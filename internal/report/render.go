package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/aoineco/openclaw-sec/internal/types"
)

// Summary is everything a renderer needs from a graded run.
type Summary struct {
	Grade        types.Grade
	Preset       string
	Diff         string
	ScannedPaths []string
	Findings     []types.Finding
	// Total counts findings before the output cap.
	Total int
}

// Format names an output renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates a user-supplied format; empty means text.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(s); f {
	case "":
		return FormatText, true
	case FormatText, FormatJSON, FormatTable, FormatSARIF:
		return f, true
	}
	return "", false
}

// PrintOptions controls human-readable output.
type PrintOptions struct {
	NoColor bool
	// MaxLines bounds the findings listed in text output.
	MaxLines int
}

const defaultMaxLines = 10

var gradeStyles = map[types.Grade]lipgloss.Style{
	types.GradePass:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	types.GradeWarn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	types.GradeBlock: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
}

// ColorEnabled reports whether w is a terminal that should get color.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paintGrade(g types.Grade, color bool) string {
	if !color {
		return string(g)
	}
	if st, ok := gradeStyles[g]; ok {
		return st.Render(string(g))
	}
	return string(g)
}

// PrintText writes the short human summary: the grade line, then at most
// MaxLines findings.
func PrintText(w io.Writer, s Summary, opts PrintOptions) {
	max := opts.MaxLines
	if max <= 0 {
		max = defaultMaxLines
	}
	color := ColorEnabled(w, opts.NoColor)
	fmt.Fprintf(w, "%s: %s\n", s.Grade, paintGrade(s.Grade, color))
	if s.Total == 0 && len(s.Findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}
	fmt.Fprintf(w, "Findings (%d):\n", len(s.Findings))
	for i, f := range s.Findings {
		if i >= max {
			fmt.Fprintf(w, "… +%d more\n", len(s.Findings)-max)
			break
		}
		fmt.Fprintf(w, "- [%s] %s :: %s:%d\n", f.Severity, f.ID, f.File, f.Line)
	}
}

// PrintTable writes findings as a table.
func PrintTable(w io.Writer, s Summary, opts PrintOptions) error {
	color := ColorEnabled(w, opts.NoColor)
	fmt.Fprintf(w, "GRADE: %s\n", paintGrade(s.Grade, color))
	if len(s.Findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("SEVERITY", "ID", "LOCATION", "PATTERN")
	for _, f := range s.Findings {
		if err := table.Append(string(f.Severity), f.ID, location(f), f.Pattern); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	if s.Total > len(s.Findings) {
		fmt.Fprintf(w, "Showing %d of %d findings\n", len(s.Findings), s.Total)
	}
	return nil
}

func location(f types.Finding) string {
	if f.Line > 0 {
		return f.File + ":" + strconv.Itoa(f.Line)
	}
	return f.File
}

// jsonOutcome is the machine-readable shape of a run.
type jsonOutcome struct {
	Grade        types.Grade     `json:"grade"`
	ScannedPaths []string        `json:"scanned_paths"`
	Findings     []types.Finding `json:"findings"`
}

// WriteJSON writes {grade, scanned_paths, findings} indented by two spaces.
func WriteJSON(w io.Writer, s Summary) error {
	out := jsonOutcome{Grade: s.Grade, ScannedPaths: s.ScannedPaths, Findings: s.Findings}
	if out.ScannedPaths == nil {
		out.ScannedPaths = []string{}
	}
	if out.Findings == nil {
		out.Findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
