package services

import (
	"fmt"
	"io"
	"os"
	"sync"

	"NeuraFlow/pkg/logger"

	"go.uber.org/zap"
)

// UploadStager writes uploaded résumé bytes to a private temp directory so the
// decoders can work on a real file.
type UploadStager struct {
	basePath string
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadStager(basePath string, maxBytes int64, log *zap.Logger) *UploadStager {
	return &UploadStager{basePath: basePath, maxBytes: maxBytes, logger: logger.OrNop(log)}
}

// StagedFile is one upload on disk. Release removes it; later calls are no-ops.
type StagedFile struct {
	Path string
	Size int64

	once   sync.Once
	logger *zap.Logger
}

func (f *StagedFile) Release() {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			f.logger.Warn("failed to remove staged upload", zap.String("path", f.Path), zap.Error(err))
		}
	})
}

// Stage copies r into a new temp file. Bytes beyond maxBytes fail the upload.
func (s *UploadStager) Stage(r io.Reader) (*StagedFile, error) {
	if err := os.MkdirAll(s.basePath, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.CreateTemp(s.basePath, "resume-*")
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	staged := &StagedFile{Path: dst.Name(), logger: s.logger}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		staged.Release()
		return nil, fmt.Errorf("save staged file: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		staged.Release()
		return nil, fmt.Errorf("file too large, maximum size is %d bytes", s.maxBytes)
	}
	staged.Size = n
	return staged, nil
}
