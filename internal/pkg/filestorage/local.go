package filestorage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/bluecollar/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // public URL the root directory is served under
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// URLs returned by Upload are baseURL + "/" + folder + "/" + name.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes data to <basePath>/<folder>/<uuid><ext>
func (ls *LocalStorage) Upload(ctx context.Context, data []byte, folder, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder = cleanFolder(folder)
	dir := filepath.Join(ls.basePath, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		_ = os.Remove(dst)
		logger.Error().Err(err).Str("path", dst).Msg("Failed to write uploaded file")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + "/" + path.Join(folder, name)
	logger.Debug().Str("filename", filename).Str("url", url).Msg("File saved")
	return url, nil
}

// Delete removes the file behind url. Missing files are ignored.
func (ls *LocalStorage) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, ls.baseURL+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("url %q is not managed by this storage", url)
	}

	physical := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if err := os.Remove(physical); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", physical).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "." {
		return ""
	}
	return folder
}
