package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/bluecollar/internal/pkg/filestorage"
)

// blobBatch uploads files for one write and removes them again if the write
// fails afterwards
type blobBatch struct {
	store  filestorage.BlobStore
	logger zerolog.Logger
	urls   []string
}

func newBlobBatch(store filestorage.BlobStore, logger zerolog.Logger) *blobBatch {
	return &blobBatch{store: store, logger: logger}
}

// put uploads u into folder. A nil upload yields a nil URL.
func (b *blobBatch) put(ctx context.Context, u *filestorage.Upload, folder string) (*string, error) {
	if u == nil {
		return nil, nil
	}
	url, err := b.store.Upload(ctx, u.Data, folder, u.Filename)
	if err != nil {
		return nil, err
	}
	b.urls = append(b.urls, url)
	return &url, nil
}

// discard deletes everything uploaded so far. Failures are logged only.
func (b *blobBatch) discard(ctx context.Context) {
	for _, url := range b.urls {
		if err := b.store.Delete(context.WithoutCancel(ctx), url); err != nil {
			b.logger.Warn().Err(err).Str("url", url).Msg("Failed to remove orphaned upload")
		}
	}
	b.urls = nil
}
