package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/loansiya/internal/common"
)

// Stager spools incoming uploads to local temporary files.
type Stager struct {
	logger   *slog.Logger
	baseDir  string
	maxBytes int64
}

// NewStager creates a stager writing under baseDir. Uploads larger than
// maxBytes are rejected; zero disables the limit.
func NewStager(baseDir string, maxBytes int64, logger *slog.Logger) *Stager {
	return &Stager{
		baseDir:  baseDir,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// StagedFile is a temporary local copy of an upload. Release removes it and
// is safe to call more than once.
type StagedFile struct {
	release      func()
	Path         string
	OriginalName string
	Size         int64
}

// Release removes the staged file.
func (f *StagedFile) Release() {
	if f != nil && f.release != nil {
		f.release()
	}
}

// Stage copies r into a new temporary file. On error nothing is left behind.
func (s *Stager) Stage(r io.Reader, originalName string) (*StagedFile, error) {
	if err := os.MkdirAll(s.baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	filePath := filepath.Join(s.baseDir, fmt.Sprintf("upload_%s", uuid.New().String()))
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("failed to remove staged upload", "path", filePath, "error", err)
			}
		})
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	size, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		release()
		return nil, fmt.Errorf("failed to stage upload: %w", copyErr)
	case closeErr != nil:
		release()
		return nil, fmt.Errorf("failed to stage upload: %w", closeErr)
	case s.maxBytes > 0 && size > s.maxBytes:
		release()
		return nil, common.Validationf("file exceeds %d bytes", s.maxBytes)
	}

	return &StagedFile{
		Path:         filePath,
		OriginalName: originalName,
		Size:         size,
		release:      release,
	}, nil
}

// BaseDir returns the staging directory.
func (s *Stager) BaseDir() string {
	return s.baseDir
}
