package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// FileConfig is the on-disk YAML configuration shape. Nil fields are unset
// and fall through to the next layer.
type FileConfig struct {
	Preset *string `yaml:"preset"`
	Diff   *string `yaml:"diff"`
	// Paths and Exclude are comma-separated, like their flags.
	Paths    *string `yaml:"paths"`
	Exclude  *string `yaml:"exclude"`
	Format   *string `yaml:"format"`
	RulesDir *string `yaml:"rules_dir"`
	Manifest *string `yaml:"manifest"`
	NoColor  *bool   `yaml:"no_color"`
}

// LocalNames are the repo-local config files, in search order.
var LocalNames = []string{".openclaw-sec.yml", ".openclaw-sec.yaml", "openclaw-sec.yml", "openclaw-sec.yaml"}

// ErrNotFound is returned by LoadLocal and LoadGlobal when no file exists.
var ErrNotFound = errors.New("no config file")

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return FileConfig{}, secerr.Wrap(err, secerr.CodeConfigParseInvalid, "parse config", secerr.FieldPath(path))
	}
	return cfg, nil
}

// LoadLocal searches root for a repo-local config file.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath is $XDG_CONFIG_HOME/openclaw-sec/config.yml, falling back to
// ~/.config. It is empty when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "openclaw-sec", "config.yml")
}

// LoadGlobal loads the per-user config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNotFound
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Merge returns a config where each field comes from the first layer that
// sets it.
func Merge(layers ...FileConfig) FileConfig {
	var out FileConfig
	for _, l := range layers {
		out.Preset = firstString(out.Preset, l.Preset)
		out.Diff = firstString(out.Diff, l.Diff)
		out.Paths = firstString(out.Paths, l.Paths)
		out.Exclude = firstString(out.Exclude, l.Exclude)
		out.Format = firstString(out.Format, l.Format)
		out.RulesDir = firstString(out.RulesDir, l.RulesDir)
		out.Manifest = firstString(out.Manifest, l.Manifest)
		if out.NoColor == nil {
			out.NoColor = l.NoColor
		}
	}
	return out
}

func firstString(cur, next *string) *string {
	if cur != nil && *cur != "" {
		return cur
	}
	if next != nil && *next != "" {
		return next
	}
	return cur
}

// Template is the starter file written by `config init`.
const Template = `# openclaw-sec configuration. Flags override these values.
# preset: workspace        # repo | workspace
# diff: staged             # staged | head | worktree
# paths: ".,skills,scripts,context"
# exclude: "**/rules/patterns/*.txt"
# format: text             # text | json | table | sarif
# rules_dir: ./rules       # secret_patterns.txt, egress_patterns.txt, prompt_injection_patterns.txt
# manifest: integrity_manifest.json
# no_color: false
`
