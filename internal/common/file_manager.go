package common

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	// DirPermissions is used for every directory the application creates
	DirPermissions = 0755
	// FilePermissions is used for every file the application writes
	FilePermissions = 0644
)

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a regular file exists at path
func (fm *FileManager) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadFile reads a whole file, rejecting files larger than maxSize when maxSize > 0
func (fm *FileManager) ReadFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapError(err, "failed to stat file: "+path)
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "is a directory")
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, NewValidationError("path", path, "file exceeds maximum size")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err, "failed to read file: "+path)
	}
	return data, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if path == "" || path == "." {
		return nil
	}

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFileAtomic writes data to a temporary sibling file and renames it over path,
// so readers never observe a partially written file.
func (fm *FileManager) WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fm.EnsureDirectory(dir, DirPermissions); err != nil {
		return WrapError(err, "failed to create parent directories for: "+path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return WrapError(err, "failed to create temporary file for: "+path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to write temporary file for: "+path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to close temporary file for: "+path)
	}
	if err := os.Chmod(tmpName, FilePermissions); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to set permissions on: "+path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to replace file: "+path)
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written")
	return nil
}
