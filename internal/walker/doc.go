// Package walker enumerates regular files under a set of roots, pruning
// infrastructure directories and excluded paths before descending.
package walker
