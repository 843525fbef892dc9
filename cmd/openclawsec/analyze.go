package openclawsec

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/sentinel"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

var (
	flagAnalyzeText  string
	flagAnalyzeStdin bool
	flagAnalyzeGate  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify a message with the prompt-injection sentinel",
		Long: "Prints a JSON verdict with severity, action, reasons, matched rule ids and a SHA-256\n" +
			"fingerprint of the input. With --gate the exit status is 2 when the action is block.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text := flagAnalyzeText
			if flagAnalyzeStdin {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return secerr.Wrap(err, secerr.CodeCLIInputReadFailure, "read stdin")
				}
				text = string(b)
			}
			if text == "" && !flagAnalyzeStdin {
				return secerr.New(secerr.CodeCLIInputMissing, "analyze requires --text or --stdin")
			}
			v := sentinel.Analyze(text)
			if err := writeIndented(cmd.OutOrStdout(), v); err != nil {
				return err
			}
			if flagAnalyzeGate && v.Blocked() {
				return exitCode(2)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagAnalyzeText, "text", "", "text to classify")
	cmd.Flags().BoolVar(&flagAnalyzeStdin, "stdin", false, "read text from stdin")
	cmd.Flags().BoolVar(&flagAnalyzeGate, "gate", false, "exit 2 when the verdict is block")
	rootCmd.AddCommand(cmd)
}
