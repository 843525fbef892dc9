// Package openclawsec provides the command-line interface for openclaw-sec.
// It registers the subcommands (check, scan-*, integrity, release-check and
// helpers), resolves flags against config files and the environment, and
// maps grades to exit codes.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/aoineco/openclaw-sec/cmd/openclawsec"
//	func main() { openclawsec.Execute() }
package openclawsec
