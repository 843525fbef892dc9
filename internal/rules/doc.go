// Package rules loads the pattern rule sets used by the scanner.
//
// Three rule classes ship embedded with the binary (secret, egress and
// prompt-injection patterns), one case-insensitive regular expression per
// line. A directory of replacement files can be supplied at run time. A
// pattern that fails to compile aborts the load: rule files are part of the
// toolkit, so a broken one is a packaging error rather than user input.
//
// The package also carries the typed prompt-injection sentinel table used by
// the analyze command.
package rules
