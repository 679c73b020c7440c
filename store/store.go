// Package store persists raw API responses to the local filesystem.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Store writes response artifacts under a base directory.
type Store struct {
	fs  afero.Afero
	dir string
}

// New returns a Store rooted at dir. Directories are created lazily on
// the first write.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: afero.Afero{Fs: fs}, dir: dir}
}

// DefaultPath returns "{dir}/meteomatics_{label}.{ext}".
func (s *Store) DefaultPath(label, ext string) string {
	return filepath.Join(s.dir, fmt.Sprintf("meteomatics_%s.%s", label, ext))
}

// SaveJSON pretty-prints the raw payload with a two-space indent and
// writes it to path, or to the default JSON path when path is empty.
// Indentation never alters the document structure or its literals.
func (s *Store) SaveJSON(path, label string, raw []byte) (string, error) {
	if path == "" {
		path = s.DefaultPath(label, "json")
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return "", errors.Wrap(err, "indenting payload")
	}
	if err := s.write(path, pretty.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// SaveRaw writes the payload verbatim. Used for csv and netcdf
// responses where the body is opaque text or binary.
func (s *Store) SaveRaw(path, label, ext string, raw []byte) (string, error) {
	if path == "" {
		path = s.DefaultPath(label, ext)
	}
	if err := s.write(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) write(path string, blob []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating directory %s", dir)
		}
	}
	if err := s.fs.WriteFile(path, blob, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
