package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aoineco/openclaw-sec/internal/allowlist"
	"github.com/aoineco/openclaw-sec/internal/diff"
	"github.com/aoineco/openclaw-sec/internal/git"
	"github.com/aoineco/openclaw-sec/internal/integrity"
	"github.com/aoineco/openclaw-sec/internal/report"
	"github.com/aoineco/openclaw-sec/internal/rules"
	"github.com/aoineco/openclaw-sec/internal/types"
	"github.com/aoineco/openclaw-sec/internal/walker"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// MaxFindings is the number of findings an Outcome carries. The grade is
// computed before the cut.
const MaxFindings = 50

// DefaultExcludes keeps the scanner's own rule files out of file scans,
// both nested and at the scan root.
var DefaultExcludes = []string{"**/rules/patterns/*.txt", "rules/patterns/*.txt"}

// Mode selects which passes a run performs.
type Mode string

const (
	ModeCheck        Mode = "check"
	ModeSecrets      Mode = "scan-secrets"
	ModeEgress       Mode = "scan-egress"
	ModePrompt       Mode = "scan-prompt"
	ModeReleaseCheck Mode = "release-check"
)

// Preset picks default roots and the URL pass strategy.
type Preset string

const (
	PresetWorkspace Preset = "workspace"
	PresetRepo      Preset = "repo"
)

// ParsePreset validates a user-supplied preset; empty means workspace.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetWorkspace, nil
	case PresetWorkspace, PresetRepo:
		return p, nil
	}
	return "", secerr.Errorf(secerr.CodeCLIInputInvalid, "unknown preset %q (want repo or workspace)", s)
}

// DefaultRoots returns the roots scanned when none are given.
func DefaultRoots(p Preset) []string {
	if p == PresetRepo {
		return []string{"."}
	}
	return []string{".", "skills", "scripts", "context"}
}

// Input is free text for a prompt scan. Name is the source file, or empty
// for inline or piped text.
type Input struct {
	Name string
	Text string
}

// Request describes one scan invocation.
type Request struct {
	Mode   Mode
	Preset Preset
	Diff   git.DiffMode
	// Roots overrides DefaultRoots. Glob roots are expanded.
	Roots []string
	// Excludes are added to DefaultExcludes.
	Excludes []string
	Rules    rules.Catalog
	// Input is required for ModePrompt.
	Input *Input

	IntegrityRequired bool
	// Manifest defaults to integrity.DefaultManifest under Dir.
	Manifest string
	// Dir is where git is queried and the manifest tree is rooted.
	// Defaults to the working directory.
	Dir string
}

// Outcome is the graded result of a run.
type Outcome struct {
	Grade        types.Grade     `json:"grade"`
	Preset       Preset          `json:"-"`
	Diff         git.DiffMode    `json:"-"`
	ScannedPaths []string        `json:"scanned_paths"`
	Findings     []types.Finding `json:"findings"`
	// Total counts findings before the MaxFindings cut.
	Total int `json:"-"`
}

// Summary converts the outcome for rendering.
func (o Outcome) Summary() report.Summary {
	return report.Summary{
		Grade:        o.Grade,
		Preset:       string(o.Preset),
		Diff:         string(o.Diff),
		ScannedPaths: o.ScannedPaths,
		Findings:     o.Findings,
		Total:        o.Total,
	}
}

// Normalize applies mode composition and defaults. release-check becomes
// check with the integrity manifest required, preset repo and staged diff
// unless set otherwise.
func (r Request) Normalize() Request {
	if r.Mode == ModeReleaseCheck {
		r.Mode = ModeCheck
		r.IntegrityRequired = true
		if r.Preset == "" {
			r.Preset = PresetRepo
		}
		if r.Diff == git.ModeNone {
			r.Diff = git.ModeStaged
		}
	}
	if r.Mode == "" {
		r.Mode = ModeCheck
	}
	if r.Preset == "" {
		r.Preset = PresetWorkspace
	}
	if r.Dir == "" {
		r.Dir = "."
	}
	if r.Manifest == "" {
		r.Manifest = filepath.Join(r.Dir, integrity.DefaultManifest)
	}
	return r
}

// run holds the lazily computed inputs shared by the passes of one Run.
type run struct {
	req      Request
	roots    []string
	excludes []string
	inside   *bool
	files    []string
	walked   bool
	diffs    map[git.DiffMode][]diff.File
	texts    map[git.DiffMode]string
}

func (s *run) insideRepo() bool {
	if s.inside == nil {
		v := git.InsideWorkTree(s.req.Dir)
		s.inside = &v
	}
	return *s.inside
}

func (s *run) targets() []string {
	if !s.walked {
		s.files = walker.Collect(s.roots, s.excludes)
		s.walked = true
	}
	return s.files
}

func (s *run) diffText(m git.DiffMode) string {
	if t, ok := s.texts[m]; ok {
		return t
	}
	t := git.DiffText(s.req.Dir, m)
	s.texts[m] = t
	return t
}

func (s *run) diff(m git.DiffMode) []diff.File {
	if d, ok := s.diffs[m]; ok {
		return d
	}
	d := diff.Parse(s.diffText(m))
	s.diffs[m] = d
	return d
}

// patternPass runs one rule class in diff mode when a diff was requested
// and git is available, otherwise over the walked files.
func (s *run) patternPass(set rules.Set) []types.Finding {
	if s.req.Diff != git.ModeNone && s.insideRepo() {
		return ScanDiff(s.diff(s.req.Diff), set, s.req.Rules.Secret, s.excludes)
	}
	return ScanFiles(s.targets(), set, s.req.Rules.Secret)
}

func (s *run) urlPass() []types.Finding {
	if s.req.Preset == PresetRepo && s.insideRepo() {
		m := s.req.Diff
		if m == git.ModeNone {
			m = git.ModeStaged
		}
		return ScanDiffURLs(s.diff(m), s.req.Rules.Secret, s.excludes)
	}
	return ScanFileURLs(s.targets(), s.req.Rules.Secret)
}

func (s *run) allowlistPass() ([]types.Finding, error) {
	top, ok := git.TopLevel(s.req.Dir)
	if !ok || !s.insideRepo() {
		return []types.Finding{allowlist.NotARepoFinding()}, nil
	}
	l, err := allowlist.Load(top)
	if err != nil {
		return nil, err
	}
	if !l.Exists {
		return []types.Finding{l.MissingFinding()}, nil
	}
	m := s.req.Diff
	if m == git.ModeNone {
		m = git.ModeStaged
	}
	changed := diff.ChangedPaths(s.diffText(m))
	return l.Enforce(changed, s.excludes, string(m)), nil
}

// integrityPass runs when the manifest is required or present.
func (s *run) integrityPass() ([]types.Finding, error) {
	path := s.req.Manifest
	if !s.req.IntegrityRequired {
		if !(integrity.Store{Path: path}).Exists() {
			return nil, nil
		}
	}
	res, err := integrity.Check(s.req.Dir, path, s.req.Excludes)
	if err != nil {
		return nil, err
	}
	switch {
	case res.NotFound():
		sev := types.SevWarn
		if s.req.IntegrityRequired {
			sev = types.SevBlock
		}
		return []types.Finding{{
			ID:       types.IDIntegrityManifestMiss,
			Severity: sev,
			File:     path,
			Pattern:  "sha256",
			Excerpt:  "Integrity manifest not found.",
		}}, nil
	case !res.OK:
		return []types.Finding{{
			ID:       types.IDIntegrityMismatch,
			Severity: types.SevBlock,
			File:     path,
			Pattern:  "sha256",
			Excerpt:  fmt.Sprintf("Integrity mismatch (%d)", len(res.Mismatches)),
		}}, nil
	}
	return nil, nil
}

// Run performs the passes selected by req.Mode and grades the result.
func Run(ctx context.Context, req Request) (Outcome, error) {
	req = req.Normalize()
	s := &run{
		req:      req,
		excludes: append(append([]string{}, DefaultExcludes...), req.Excludes...),
		diffs:    map[git.DiffMode][]diff.File{},
		texts:    map[git.DiffMode]string{},
	}
	roots := req.Roots
	if len(roots) == 0 {
		roots = DefaultRoots(req.Preset)
	}
	s.roots = walker.ExpandRoots(roots)
	log.Debug().Str("mode", string(req.Mode)).Str("preset", string(req.Preset)).
		Str("diff", string(req.Diff)).Strs("roots", s.roots).Msg("scan start")

	var findings []types.Finding
	steps := []func() ([]types.Finding, error){}
	pure := func(f func() []types.Finding) func() ([]types.Finding, error) {
		return func() ([]types.Finding, error) { return f(), nil }
	}

	switch req.Mode {
	case ModeCheck:
		steps = append(steps,
			pure(func() []types.Finding { return s.patternPass(req.Rules.Secret) }),
			pure(func() []types.Finding { return s.patternPass(req.Rules.Egress) }),
			pure(s.urlPass),
			s.allowlistPass,
		)
	case ModeSecrets:
		steps = append(steps, pure(func() []types.Finding { return s.patternPass(req.Rules.Secret) }))
	case ModeEgress:
		steps = append(steps, pure(func() []types.Finding { return s.patternPass(req.Rules.Egress) }))
	case ModePrompt:
		if req.Input == nil {
			return Outcome{}, secerr.New(secerr.CodeCLIInputMissing, "scan-prompt requires --file, --text, or --stdin")
		}
		in := *req.Input
		steps = append(steps,
			pure(func() []types.Finding { return ScanText(in.Name, in.Text, req.Rules.Prompt, req.Rules.Secret) }),
			pure(func() []types.Finding { return ScanTextURLs(in.Name, in.Text, req.Rules.Secret) }),
		)
	default:
		return Outcome{}, secerr.Errorf(secerr.CodeCLIInputInvalid, "unknown scan mode %q", req.Mode)
	}
	steps = append(steps, s.integrityPass)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		fs, err := step()
		if err != nil {
			return Outcome{}, err
		}
		findings = append(findings, fs...)
	}

	out := Outcome{
		Grade:        report.Grade(findings),
		Preset:       req.Preset,
		Diff:         req.Diff,
		ScannedPaths: s.roots,
		Findings:     findings,
		Total:        len(findings),
	}
	if out.ScannedPaths == nil {
		out.ScannedPaths = []string{}
	}
	if out.Findings == nil {
		out.Findings = []types.Finding{}
	}
	if len(out.Findings) > MaxFindings {
		out.Findings = out.Findings[:MaxFindings]
	}
	return out, nil
}
