package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SpooledFile is one uploaded part persisted to local disk, waiting to be
// pushed to the remote store.
type SpooledFile struct {
	OriginalName string
	Path         string
	Size         int64
}

// Spool stores incoming multipart file parts on the local filesystem until
// the request that owns them finishes. Every request must remove its spooled
// files on every exit path.
type Spool struct {
	basePath string
}

// NewSpool creates a spool rooted at basePath.
func NewSpool(basePath string) *Spool {
	return &Spool{basePath: basePath}
}

// EnsureDir creates the spool directory if it doesn't exist.
func (s *Spool) EnsureDir() error {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory %s: %w", s.basePath, err)
	}
	return nil
}

// Dir returns the spool directory.
func (s *Spool) Dir() string {
	return s.basePath
}

// Save writes data to a uniquely named file in the spool directory and
// returns its handle. The original name is kept for the remote upload only;
// on disk the file gets a random name.
func (s *Spool) Save(originalName string, data io.Reader) (*SpooledFile, error) {
	path := filepath.Join(s.basePath, uuid.New().String())

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(path)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	return &SpooledFile{
		OriginalName: sanitizeFilename(originalName),
		Path:         path,
		Size:         n,
	}, nil
}

// Remove deletes a spooled file from disk. Removing a file that is already
// gone is not an error.
func (s *Spool) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete temp file %s: %w", path, err)
	}
	return nil
}

// sanitizeFilename strips directory components and limits length.
func sanitizeFilename(name string) string {
	// Normalize Windows-style backslashes to forward slashes before
	// calling filepath.Base, which is platform-specific.
	name = strings.ReplaceAll(name, "\\", "/")

	name = filepath.Base(name)

	if len(name) > 255 {
		ext := filepath.Ext(name)
		if len(ext) >= 255 {
			// The extension alone fills the limit; keep the head of the name.
			name = name[:255]
		} else {
			name = name[:255-len(ext)] + ext
		}
	}

	if name == "" || name == "." {
		name = "document"
	}

	return name
}
