package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

// FileStore stores uploaded certificate files in a GCS bucket and returns
// their public URLs.
type FileStore struct {
	Client *storage.Client
	Bucket string
}

func NewFileStore(client *storage.Client, bucket string) *FileStore {
	return &FileStore{Client: client, Bucket: bucket}
}

func (f *FileStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, f.Client, f.Bucket, objectPath, contentType, r)
}
