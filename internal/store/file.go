package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"
)

// FileStore keeps posted links as an indented JSON array in a single file
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the JSON array from disk
func (s *FileStore) Load(_ context.Context) entity.PostedSet {
	contents, err := os.ReadFile(s.path)

	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewPostedSet()
	}

	if err != nil {
		app.Logger().Warn("Could not read posted links file", "path", s.path, "error", err)
		return entity.NewPostedSet()
	}

	var links []string

	if err := json.Unmarshal(contents, &links); err != nil {
		app.Logger().Warn("Could not parse posted links file", "path", s.path, "error", err)
		return entity.NewPostedSet()
	}

	return entity.NewPostedSet(links...)
}

// Save writes the links into a temp file next to the target and renames it over the target
func (s *FileStore) Save(_ context.Context, posted entity.PostedSet) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(posted.Sorted()); err != nil {
		return fmt.Errorf("could not encode posted links: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")

	if err != nil {
		return fmt.Errorf("could not create a temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write posted links into %s: %w", tmpFile.Name(), err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("could not sync %s: %w", tmpFile.Name(), err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", tmpFile.Name(), err)
	}

	if err := os.Chmod(tmpFile.Name(), 0644); err != nil {
		return fmt.Errorf("could not chmod %s: %w", tmpFile.Name(), err)
	}

	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace %s: %w", s.path, err)
	}

	return nil
}

func (s *FileStore) Close() error {
	return nil
}
