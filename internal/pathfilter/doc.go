// Package pathfilter decides whether a path is excluded from scanning and
// whether a changed path is permitted by the repository allowlist.
//
// Both rule kinds share one glob dialect: "**" crosses path separators, "*"
// does not. They differ in what happens when a rule does not match cleanly.
// Exclusion falls back to a literal prefix test and so errs toward skipping;
// allowlist rules that match nothing leave the path disallowed.
package pathfilter
