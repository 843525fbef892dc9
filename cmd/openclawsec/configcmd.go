package openclawsec

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aoineco/openclaw-sec/internal/config"
	"github.com/aoineco/openclaw-sec/internal/engine"
	"github.com/aoineco/openclaw-sec/internal/files"
	"github.com/aoineco/openclaw-sec/internal/git"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

var (
	cfgOutput string
	cfgForce  bool
	cfgPreset string
	cfgDiff   string
	cfgFormat string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .openclaw-sec.yml",
		Long: "Writes a commented template. Values given with --preset, --diff or --format are\n" +
			"written as active settings above the template.",
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&cfgPreset, "preset", "", "repo | workspace")
	initCmd.Flags().StringVar(&cfgDiff, "diff", "", "staged | head | worktree")
	initCmd.Flags().StringVar(&cfgFormat, "format", "", "text | json | table | sarif")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return secerr.Errorf(secerr.CodeCLIInputInvalid, "%s already exists (use --force to overwrite)", cfgOutput)
	}
	active := map[string]string{}
	if cfgPreset != "" {
		p, err := engine.ParsePreset(cfgPreset)
		if err != nil {
			return err
		}
		active["preset"] = string(p)
	}
	if cfgDiff != "" {
		m, err := git.ParseDiffMode(cfgDiff)
		if err != nil {
			return err
		}
		active["diff"] = string(m)
	}
	if cfgFormat != "" {
		f, err := parseFormat(cfgFormat)
		if err != nil {
			return err
		}
		active["format"] = string(f)
	}
	var body []byte
	if len(active) > 0 {
		b, err := yaml.Marshal(active)
		if err != nil {
			return err
		}
		body = append(body, b...)
	}
	body = append(body, config.Template...)
	if err := files.WriteAtomic(cfgOutput, body); err != nil {
		return secerr.Wrap(err, secerr.CodeConfigWriteFailure, "write config", secerr.FieldPath(cfgOutput))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgOutput)
	return nil
}
