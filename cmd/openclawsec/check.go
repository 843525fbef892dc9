package openclawsec

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/config"
	"github.com/aoineco/openclaw-sec/internal/engine"
	"github.com/aoineco/openclaw-sec/internal/git"
	"github.com/aoineco/openclaw-sec/internal/integrity"
	"github.com/aoineco/openclaw-sec/internal/report"
)

var (
	flagPreset   string
	flagDiff     string
	flagPaths    string
	flagExclude  string
	flagOut      string
	flagManifest string
)

// scanSettings is the resolved configuration of one scan command.
type scanSettings struct {
	preset   engine.Preset
	diff     git.DiffMode
	roots    []string
	excludes []string
	format   report.Format
	out      string
	manifest string
	noColor  bool
	rulesDir string
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPreset, "preset", "", "repo | workspace (default workspace; release-check defaults to repo)")
	cmd.Flags().StringVar(&flagDiff, "diff", "", "scan a git diff instead of files: staged | head | worktree")
	cmd.Flags().StringVar(&flagPaths, "paths", "", "comma-separated roots to scan (globs allowed)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&flagOut, "out", "", "also write a markdown report to this path")
	cmd.Flags().StringVar(&flagManifest, "manifest", integrity.DefaultManifest, "integrity manifest path")
}

func resolveScan(cmd *cobra.Command) (scanSettings, error) {
	fc := loadFileConfig()
	return resolveScanWith(cmd, fc)
}

func resolveScanWith(cmd *cobra.Command, fc config.FileConfig) (scanSettings, error) {
	var s scanSettings
	var err error
	// an unset preset stays empty so release-check can pick its own
	if raw := pickString(cmd, "preset", flagPreset, fc.Preset); raw != "" {
		if s.preset, err = engine.ParsePreset(raw); err != nil {
			return s, err
		}
	}
	if s.diff, err = git.ParseDiffMode(pickString(cmd, "diff", flagDiff, fc.Diff)); err != nil {
		return s, err
	}
	if s.format, err = parseFormat(pickString(cmd, "format", flagFormat, fc.Format)); err != nil {
		return s, err
	}
	s.roots = splitList(pickString(cmd, "paths", flagPaths, fc.Paths))
	s.excludes = splitList(pickString(cmd, "exclude", flagExclude, fc.Exclude))
	s.out = flagOut
	s.manifest = pickString(cmd, "manifest", flagManifest, fc.Manifest)
	s.noColor = pickBool(cmd, "no-color", flagNoColor, fc.NoColor)
	s.rulesDir = pickString(cmd, "rules-dir", flagRulesDir, fc.RulesDir)
	return s, nil
}

func runScanMode(mode engine.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := resolveScan(cmd)
		if err != nil {
			return err
		}
		cat, err := loadRules(s.rulesDir)
		if err != nil {
			return err
		}
		out, err := engine.Run(cmd.Context(), engine.Request{
			Mode:     mode,
			Preset:   s.preset,
			Diff:     s.diff,
			Roots:    s.roots,
			Excludes: s.excludes,
			Rules:    cat,
			Manifest: s.manifest,
		})
		if err != nil {
			return err
		}
		if err := emit(cmd.OutOrStdout(), out.Summary(), s); err != nil {
			return err
		}
		return gradeExit(out.Grade)
	}
}

// emit writes the optional report file, then stdout in the chosen format.
func emit(w io.Writer, sum report.Summary, s scanSettings) error {
	if s.out != "" {
		if err := report.WriteMarkdown(s.out, sum); err != nil {
			return err
		}
	}
	switch s.format {
	case report.FormatJSON:
		return report.WriteJSON(w, sum)
	case report.FormatSARIF:
		return report.WriteSARIF(w, sum)
	case report.FormatTable:
		if err := report.PrintTable(w, sum, report.PrintOptions{NoColor: s.noColor}); err != nil {
			return err
		}
	default:
		report.PrintText(w, sum, report.PrintOptions{NoColor: s.noColor})
	}
	if s.out != "" {
		fmt.Fprintf(w, "Report written: %s\n", s.out)
	}
	return nil
}

func init() {
	cmds := []struct {
		mode  engine.Mode
		short string
		long  string
	}{
		{engine.ModeCheck, "Run every check: secrets, egress, URLs, allowlist and integrity",
			"Scans for secrets and egress indicators (diff mode with --diff inside a git work tree),\n" +
				"tags suspicious URLs, enforces .aoi-allowlist and verifies the integrity manifest when present."},
		{engine.ModeSecrets, "Scan for secret-like material", ""},
		{engine.ModeEgress, "Scan for data-egress indicators", "Egress hits in sensitive paths are escalated to block."},
		{engine.ModeReleaseCheck, "Strict check for releases",
			"check with the integrity manifest required, preset repo and --diff staged unless overridden."},
	}
	for _, c := range cmds {
		cmd := &cobra.Command{
			Use:   string(c.mode),
			Short: c.short,
			Long:  c.long,
			Args:  cobra.NoArgs,
			RunE:  runScanMode(c.mode),
		}
		addScanFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}
