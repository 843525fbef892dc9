package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: OPENCLAW_SEC_PRESET,
// OPENCLAW_SEC_RULES_DIR and so on.
const EnvPrefix = "OPENCLAW_SEC"

// FromEnv reads the environment layer. Empty variables count as unset.
func FromEnv() FileConfig {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	str := func(key string) *string {
		if !v.IsSet(key) {
			return nil
		}
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			return nil
		}
		return &s
	}
	var cfg FileConfig
	cfg.Preset = str("preset")
	cfg.Diff = str("diff")
	cfg.Paths = str("paths")
	cfg.Exclude = str("exclude")
	cfg.Format = str("format")
	cfg.RulesDir = str("rules_dir")
	cfg.Manifest = str("manifest")
	if v.IsSet("no_color") {
		b := v.GetBool("no_color")
		cfg.NoColor = &b
	}
	return cfg
}
