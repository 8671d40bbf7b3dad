package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned when an upload exceeds the size limit
var ErrTooLarge = errors.New("file exceeds size limit")

// localStorage keeps uploaded media on the local filesystem, one directory per media kind
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// generatePath builds the full file path of a file of the given kind.
// File names must be plain names without directory components.
func (s *localStorage) generatePath(kind, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}
	return filepath.Join(s.basePath, kind, fileName), nil
}

// Save writes r to a new file, failing with ErrTooLarge once more than maxSize bytes
// are read. A partially written file is removed.
func (s *localStorage) Save(kind, fileName string, r io.Reader, maxSize int64) (int64, error) {
	path, err := s.generatePath(kind, fileName)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create media directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, copyErr := io.Copy(file, io.LimitReader(r, maxSize+1))
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w", copyErr)
	case written > maxSize:
		os.Remove(path)
		return 0, ErrTooLarge
	case closeErr != nil:
		os.Remove(path)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	return written, nil
}

// OpenFile opens a stored file and returns *os.File
func (s *localStorage) OpenFile(kind, fileName string) (*os.File, error) {
	path, err := s.generatePath(kind, fileName)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(kind, fileName string) error {
	path, err := s.generatePath(kind, fileName)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
