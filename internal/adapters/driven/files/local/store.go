// Package local provides a filesystem FileStore for raw uploads.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/talosedu/materia/internal/core/domain"
	"github.com/talosedu/materia/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FileStore = (*Store)(nil)

// Store persists uploaded files under a single directory, keyed by
// filename. Saving the same filename twice overwrites the earlier bytes.
type Store struct {
	dir string
}

// NewStore creates a file store rooted at dir, creating it if needed.
// If dir is empty, defaults to ~/.materia/uploads.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".materia", "uploads")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the file contents and returns the stored path.
// The write goes to a temporary file first and is renamed into place,
// so a failed upload never truncates a previously stored file.
func (s *Store) Save(_ context.Context, filename string, contents io.Reader) (string, error) {
	name, err := cleanFilename(filename)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, contents); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing upload: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("storing upload: %w", err)
	}

	return path, nil
}

// Open returns a reader over previously stored bytes.
func (s *Store) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	name, err := cleanFilename(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	return f, nil
}

// Remove deletes stored bytes. Removing an absent file is not an error.
func (s *Store) Remove(_ context.Context, filename string) error {
	name, err := cleanFilename(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// cleanFilename rejects names that would escape the upload directory.
func cleanFilename(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: filename %q", domain.ErrInvalidInput, filename)
	}
	return name, nil
}
