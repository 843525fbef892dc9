package core

import (
	"encoding/json"
	"io"
)

// MarshalOutcome pretty-prints the machine-readable result: grade,
// scanned paths and findings.
func MarshalOutcome(w io.Writer, out Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// UnmarshalOutcome decodes output written by MarshalOutcome or the CLI's
// json format.
func UnmarshalOutcome(r io.Reader) (Outcome, error) {
	var out Outcome
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return Outcome{}, err
	}
	return out, nil
}
