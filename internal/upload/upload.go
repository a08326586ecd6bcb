// Package upload stages request bodies on disk for the duration of one
// extraction. Every staged file must be released by its acquirer.
package upload

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sanjeevkumarraob/file-extractor-service/pkg/stream"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = eris.New("file size exceeds maximum allowed size")

// Options configure staging.
type Options struct {
	// Dir holds staged files. Empty means the OS temp directory.
	Dir string

	// MaxBytes caps the staged size. Zero or less disables the cap.
	MaxBytes int64

	// ChunkSize is the copy buffer size.
	ChunkSize int
}

// File is a staged upload. Release deletes it.
type File struct {
	Name string
	Path string
	Size int64

	once       sync.Once
	releaseErr error
}

// Stage copies r into a new file under opts.Dir. On failure nothing is
// left on disk.
func Stage(r io.Reader, name string, opts Options) (*File, error) {
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, eris.Wrap(err, "upload: create staging dir")
	}

	path := filepath.Join(dir, "upload-"+uuid.NewString())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, eris.Wrap(err, "upload: create staging file")
	}

	n, copyErr := stream.CopyLimited(f, r, opts.ChunkSize, opts.MaxBytes)
	closeErr := f.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if errors.Is(copyErr, stream.ErrLimitExceeded) {
			return nil, ErrTooLarge
		}
		if copyErr != nil {
			return nil, eris.Wrap(copyErr, "upload: copy body")
		}
		return nil, eris.Wrap(closeErr, "upload: close staging file")
	}

	return &File{Name: name, Path: path, Size: n}, nil
}

// Bytes reads the staged content.
func (f *File) Bytes() ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, eris.Wrap(err, "upload: read staged file")
	}
	return b, nil
}

// Release deletes the staged file. It is safe to call more than once.
func (f *File) Release() error {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.releaseErr = eris.Wrap(err, "upload: remove staged file")
		}
	})
	return f.releaseErr
}
