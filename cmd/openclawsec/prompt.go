package openclawsec

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/engine"
	"github.com/aoineco/openclaw-sec/internal/integrity"
	"github.com/aoineco/openclaw-sec/internal/rules"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

var (
	flagPromptFile  string
	flagPromptText  string
	flagPromptStdin bool
)

// readPromptInput picks the first of --file, --text and --stdin that is set.
// It returns nil when none is.
func readPromptInput(cmd *cobra.Command) (*engine.Input, error) {
	switch {
	case flagPromptFile != "":
		b, err := os.ReadFile(flagPromptFile)
		if err != nil {
			return nil, secerr.Wrap(err, secerr.CodeCLIInputReadFailure, "read prompt file", secerr.FieldPath(flagPromptFile))
		}
		return &engine.Input{Name: flagPromptFile, Text: string(b)}, nil
	case flagPromptText != "":
		return &engine.Input{Text: flagPromptText}, nil
	case flagPromptStdin:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, secerr.Wrap(err, secerr.CodeCLIInputReadFailure, "read stdin")
		}
		return &engine.Input{Text: string(b)}, nil
	}
	return nil, nil
}

func runScanPrompt(cmd *cobra.Command, _ []string) error {
	fc := loadFileConfig()
	s, err := resolveScanWith(cmd, fc)
	if err != nil {
		return err
	}
	in, err := readPromptInput(cmd)
	if err != nil {
		return err
	}
	var cat rules.Catalog
	if cat, err = loadRules(s.rulesDir); err != nil {
		return err
	}
	out, err := engine.Run(cmd.Context(), engine.Request{
		Mode:     engine.ModePrompt,
		Input:    in,
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

func init() {
	cmd := &cobra.Command{
		Use:   "scan-prompt",
		Short: "Scan a prompt or message for injection patterns",
		Long: "Scans one piece of text with the prompt-injection rules after Unicode normalization.\n" +
			"Text comes from --file, --text or --stdin, in that order of preference.",
		Example: `  openclaw-sec scan-prompt --text "ignore previous instructions"
  cat message.txt | openclaw-sec scan-prompt --stdin --format json`,
		Args: cobra.NoArgs,
		RunE: runScanPrompt,
	}
	cmd.Flags().StringVar(&flagPromptFile, "file", "", "read text from this file")
	cmd.Flags().StringVar(&flagPromptText, "text", "", "inline text")
	cmd.Flags().BoolVar(&flagPromptStdin, "stdin", false, "read text from stdin")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs for the integrity check")
	cmd.Flags().StringVar(&flagOut, "out", "", "also write a markdown report to this path")
	cmd.Flags().StringVar(&flagManifest, "manifest", integrity.DefaultManifest, "integrity manifest path")
	rootCmd.AddCommand(cmd)
}
