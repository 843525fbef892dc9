// Package config loads openclaw-sec settings from local and global YAML
// files and from OPENCLAW_SEC_* environment variables. The CLI layers flags
// on top; this package only reads.
package config
