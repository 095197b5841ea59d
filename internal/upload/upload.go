// Package upload keeps uploaded files on disk for the duration of a request.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

var ErrTooLarge = errors.New("uploaded file is too large")

type Store struct {
	dir      string
	maxBytes int64
}

// NewStore writes into dir, or the OS temp dir when dir is empty.
func NewStore(dir string, maxBytes int64) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{dir: dir, maxBytes: maxBytes}
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// File is a stored upload. Remove must be called once the caller is done.
type File struct {
	Path string
	Name string
	Size int64
}

// Save copies src to a uuid-named file that keeps the original extension.
func (s *Store) Save(src io.Reader, originalName string) (*File, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, "upload-"+uuid.NewString()+ext)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	limit := src
	if s.maxBytes > 0 {
		limit = io.LimitReader(src, s.maxBytes+1)
	}
	n, err := io.Copy(dst, limit)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &File{Path: path, Name: filepath.Base(originalName), Size: n}, nil
}

// Remove deletes the stored file. Failures are logged, not returned.
func (f *File) Remove(ctx context.Context) {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "failed to remove upload", "path", f.Path, "error", err)
	}
}
