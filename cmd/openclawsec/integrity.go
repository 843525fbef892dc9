package openclawsec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/integrity"
	"github.com/aoineco/openclaw-sec/internal/report"
)

const maxMismatchLines = 10

var (
	flagIntegrityOut     string
	flagIntegrityExclude string
	flagIntegrityRoot    string
)

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func integrityFormat(cmd *cobra.Command) (bool, error) {
	f, err := parseFormat(pickString(cmd, "format", flagFormat, loadFileConfig().Format))
	if err != nil {
		return false, err
	}
	return f == report.FormatJSON, nil
}

func runIntegrityInit(cmd *cobra.Command, _ []string) error {
	asJSON, err := integrityFormat(cmd)
	if err != nil {
		return err
	}
	m, err := integrity.Init(flagIntegrityRoot, flagIntegrityOut, splitList(flagIntegrityExclude))
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if asJSON {
		return writeIndented(w, struct {
			OK       bool               `json:"ok"`
			Out      string             `json:"out"`
			Manifest integrity.Manifest `json:"manifest"`
		}{true, flagIntegrityOut, m})
	}
	fmt.Fprintf(w, "PASS: integrity manifest written: %s\n", flagIntegrityOut)
	return nil
}

func runIntegrityCheck(cmd *cobra.Command, _ []string) error {
	asJSON, err := integrityFormat(cmd)
	if err != nil {
		return err
	}
	res, err := integrity.Check(flagIntegrityRoot, flagIntegrityOut, splitList(flagIntegrityExclude))
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch {
	case res.NotFound():
		if asJSON {
			if err := writeIndented(w, res); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "WARN: integrity manifest not found: %s\n", flagIntegrityOut)
		}
		return exitCode(1)
	case !res.OK:
		if asJSON {
			if err := writeIndented(w, res); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "BLOCK: integrity mismatch (%d)\n", len(res.Mismatches))
			for i, m := range res.Mismatches {
				if i == maxMismatchLines {
					fmt.Fprintf(w, "… +%d more\n", len(res.Mismatches)-maxMismatchLines)
					break
				}
				fmt.Fprintf(w, "- %s (%s)\n", m.Path, m.Reason)
			}
		}
		return exitCode(2)
	}
	if asJSON {
		return writeIndented(w, res)
	}
	fmt.Fprintf(w, "PASS: integrity OK (%s)\n", flagIntegrityOut)
	return nil
}

func init() {
	parent := &cobra.Command{
		Use:   "integrity",
		Short: "Create or verify the SHA-256 integrity manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return exitCode(1)
		},
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Hash every file under the root and write the manifest",
		Args:  cobra.NoArgs,
		RunE:  runIntegrityInit,
	}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Compare the tree with the manifest (exit 0 OK, 1 not found, 2 mismatch)",
		Args:  cobra.NoArgs,
		RunE:  runIntegrityCheck,
	}
	for _, c := range []*cobra.Command{initCmd, checkCmd} {
		c.Flags().StringVar(&flagIntegrityOut, "out", integrity.DefaultManifest, "manifest path")
		c.Flags().StringVar(&flagIntegrityExclude, "exclude", "", "comma-separated exclude globs, relative to the root")
		c.Flags().StringVar(&flagIntegrityRoot, "root", ".", "tree to hash")
		parent.AddCommand(c)
	}
	rootCmd.AddCommand(parent)
}
