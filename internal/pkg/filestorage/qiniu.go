package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/qiniu/go-sdk/v7/auth"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/yigit/bluecollar/internal/pkg/logger"
)

// QiniuConfig holds the bucket credentials
type QiniuConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string // CDN domain bound to the bucket
	UseHTTPS  bool
}

// QiniuStorage stores blobs in a Qiniu Kodo bucket
type QiniuStorage struct {
	cfg      QiniuConfig
	mac      *auth.Credentials
	uploader *storage.FormUploader
	buckets  *storage.BucketManager
}

// NewQiniuStorage creates a Qiniu backed BlobStore
func NewQiniuStorage(cfg QiniuConfig) *QiniuStorage {
	mac := auth.New(cfg.AccessKey, cfg.SecretKey)
	sdkCfg := &storage.Config{UseHTTPS: cfg.UseHTTPS}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &QiniuStorage{
		cfg:      cfg,
		mac:      mac,
		uploader: storage.NewFormUploader(sdkCfg),
		buckets:  storage.NewBucketManager(mac, sdkCfg),
	}
}

// Upload puts data under <folder>/<uuid><ext> in the bucket
func (qs *QiniuStorage) Upload(ctx context.Context, data []byte, folder, filename string) (string, error) {
	key := path.Join(cleanFolder(folder), uuid.New().String()+strings.ToLower(filepath.Ext(filename)))

	policy := storage.PutPolicy{Scope: qs.cfg.Bucket + ":" + key}
	token := policy.UploadToken(qs.mac)

	var ret storage.PutRet
	if err := qs.uploader.Put(ctx, &ret, token, key, bytes.NewReader(data), int64(len(data)), &storage.PutExtra{}); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Qiniu upload failed")
		return "", fmt.Errorf("failed to upload to qiniu: %w", err)
	}

	return qs.cfg.BaseURL + "/" + ret.Key, nil
}

// Delete removes the object behind url
func (qs *QiniuStorage) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, qs.cfg.BaseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("url %q is not managed by this storage", url)
	}
	if err := qs.buckets.Delete(qs.cfg.Bucket, key); err != nil {
		// 612: no such file or directory
		if strings.Contains(err.Error(), "no such file") {
			return nil
		}
		return fmt.Errorf("failed to delete from qiniu: %w", err)
	}
	return nil
}
