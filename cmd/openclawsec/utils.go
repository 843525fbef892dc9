package openclawsec

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/config"
	"github.com/aoineco/openclaw-sec/internal/report"
	"github.com/aoineco/openclaw-sec/internal/rules"
	"github.com/aoineco/openclaw-sec/internal/types"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// loadFileConfig merges the environment, repo-local and global layers, in
// that order of precedence. Missing or malformed files are skipped.
func loadFileConfig() config.FileConfig {
	var lcfg, gcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	} else if !errors.Is(err, config.ErrNotFound) {
		log.Debug().Err(err).Msg("ignoring global config")
	}
	wd, _ := os.Getwd()
	if c, err := config.LoadLocal(wd); err == nil {
		lcfg = c
	} else if !errors.Is(err, config.ErrNotFound) {
		log.Debug().Err(err).Msg("ignoring local config")
	}
	return config.Merge(config.FromEnv(), lcfg, gcfg)
}

// changed reports whether the named flag was set on the command line.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// pickString resolves flag > config layer > flag default.
func pickString(cmd *cobra.Command, name, cli string, layer *string) string {
	if changed(cmd, name) {
		return cli
	}
	if layer != nil && *layer != "" {
		return *layer
	}
	return cli
}

func pickBool(cmd *cobra.Command, name string, cli bool, layer *bool) bool {
	if changed(cmd, name) {
		return cli
	}
	if layer != nil {
		return *layer
	}
	return cli
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFormat(s string) (report.Format, error) {
	f, ok := report.ParseFormat(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", secerr.Errorf(secerr.CodeCLIInputInvalid, "unknown format %q (want text, json, table or sarif)", s)
	}
	return f, nil
}

func loadRules(dir string) (rules.Catalog, error) {
	return rules.Load(dir)
}

// gradeExit turns a grade into the RunE result.
func gradeExit(g types.Grade) error {
	if c := g.ExitCode(); c != 0 {
		return exitCode(c)
	}
	return nil
}
