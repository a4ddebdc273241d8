package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalStorage stages uploads under a directory on the local filesystem.
type LocalStorage struct {
	basePath string
	logger   zerolog.Logger
}

var _ UploadStorage = (*LocalStorage)(nil)

// NewLocalStorage ensures basePath exists and returns a storage rooted there.
func NewLocalStorage(basePath string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Upload directory ensured")
	return &LocalStorage{basePath: basePath, logger: logger}, nil
}

// Save writes the upload to <basePath>/<uuid><ext>.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", errors.New("no file provided")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(ls.basePath, uuid.NewString()+ext)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	ls.logger.Debug().Str("filename", fileHeader.Filename).Str("saved_as", dstPath).Msg("Upload staged")
	return dstPath, nil
}

// Remove deletes a staged file. Paths outside basePath are refused.
func (ls *LocalStorage) Remove(path string) error {
	if path == "" {
		return nil
	}

	rel, err := filepath.Rel(ls.basePath, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", path)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	ls.logger.Debug().Str("path", path).Msg("Upload removed")
	return nil
}
