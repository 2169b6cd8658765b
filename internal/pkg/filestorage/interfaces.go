package filestorage

import (
	"context"
)

// Upload folders used across the application
const (
	FolderCommunityPhotos = "community_photos"
	FolderPostImages      = "post_images"
	FolderProfilePhotos   = "profile_photos"
	FolderResumes         = "resumes"
)

// BlobStore stores binary objects and hands back a permanent URL
type BlobStore interface {
	// Upload stores data under folder and returns the public URL. filename is
	// only used for its extension.
	Upload(ctx context.Context, data []byte, folder, filename string) (string, error)

	// Delete removes an object previously returned by Upload. Deleting a
	// missing object is not an error.
	Delete(ctx context.Context, url string) error
}
