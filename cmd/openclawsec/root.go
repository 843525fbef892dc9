package openclawsec

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/version"
)

var (
	flagFormat   string
	flagNoColor  bool
	flagVerbose  bool
	flagRulesDir string
)

// rootCmd is the base Cobra command for the openclaw-sec CLI.
var rootCmd = &cobra.Command{
	Use:   "openclaw-sec",
	Short: "Offline security gate for skills, prompts and repositories",
	Long: "openclaw-sec scans files or git diffs for secrets, data-egress indicators and prompt injection,\n" +
		"enforces a repository allowlist and verifies an integrity manifest.\n\n" +
		"Exit codes: 0 PASS, 1 WARN, 2 BLOCK",
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// exitCode carries a grade's exit status out of RunE without printing an
// error.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// Execute runs the openclaw-sec CLI. It should be called by the main package.
func Execute() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		return 2
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    flagNoColor,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text | json | table | sarif")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagRulesDir, "rules-dir", "", "directory with secret_patterns.txt, egress_patterns.txt, prompt_injection_patterns.txt")
}
