package openclawsec

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/allowlist"
	"github.com/aoineco/openclaw-sec/internal/git"
)

// allowlistRoot is the enclosing git top level, or the working directory.
func allowlistRoot() string {
	wd, _ := os.Getwd()
	if top, ok := git.TopLevel(wd); ok {
		return top
	}
	return wd
}

func init() {
	parent := &cobra.Command{
		Use:   "allowlist",
		Short: "Manage the .aoi-allowlist of paths that may change",
	}
	add := &cobra.Command{
		Use:   "add <rule>...",
		Short: "Append glob or path rules to the allowlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := allowlistRoot()
			for _, rule := range args {
				ok, err := allowlist.Append(root, rule)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "added: %s\n", rule)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "exists: %s\n", rule)
				}
			}
			return nil
		},
	}
	test := &cobra.Command{
		Use:   "test <path>...",
		Short: "Report whether each path is allowed (exit 1 if any is not)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := allowlist.Load(allowlistRoot())
			if err != nil {
				return err
			}
			if !l.Exists {
				fmt.Fprintf(cmd.OutOrStdout(), "WARN: %s not found in %s\n", allowlist.FileName, l.Root)
				return exitCode(1)
			}
			denied := 0
			for _, p := range args {
				verdict := "allowed"
				if !l.Allowed(p) {
					verdict = "denied"
					denied++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict, p)
			}
			if denied > 0 {
				return exitCode(1)
			}
			return nil
		},
	}
	parent.AddCommand(add, test)
	rootCmd.AddCommand(parent)
}
