package integrity

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/aoineco/openclaw-sec/internal/files"
	secerr "github.com/aoineco/openclaw-sec/pkg/errors"
)

// Store reads and writes one manifest file. It keeps nothing in memory
// between calls; every Load goes to disk.
type Store struct {
	Path string
}

// Load reads the manifest. found is false when the file does not exist,
// which is not an error. A file that is not valid JSON is.
func (s Store) Load() (m Manifest, found bool, err error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, secerr.Wrap(err, secerr.CodeManifestReadFailure, "read integrity manifest", secerr.FieldPath(s.Path))
	}
	if err := json.Unmarshal(files.StripBOM(b), &m); err != nil {
		return Manifest{}, true, secerr.Wrap(err, secerr.CodeManifestParseInvalid, "parse integrity manifest", secerr.FieldPath(s.Path))
	}
	return m, true, nil
}

// Save writes the manifest as indented JSON with a trailing newline,
// replacing any previous file atomically.
func (s Store) Save(m Manifest) error {
	if m.Entries == nil {
		m.Entries = []Entry{}
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return secerr.Wrap(err, secerr.CodeManifestWriteFailure, "encode integrity manifest", secerr.FieldPath(s.Path))
	}
	b = append(b, '\n')
	if err := files.WriteAtomic(s.Path, b); err != nil {
		return secerr.Wrap(err, secerr.CodeManifestWriteFailure, "write integrity manifest", secerr.FieldPath(s.Path))
	}
	return nil
}

// Exists reports whether the manifest file is present.
func (s Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}
