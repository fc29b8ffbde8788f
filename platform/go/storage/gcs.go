package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
)

// GCSStore keeps assets in a Google Cloud Storage bucket.
type GCSStore struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewGCSStore constructs a store; publicBaseURL defaults to the storage.googleapis.com bucket URL.
func NewGCSStore(client *storage.Client, bucket, publicBaseURL string) *GCSStore {
	if client == nil {
		panic("gcs store requires client")
	}
	if strings.TrimSpace(bucket) == "" {
		panic("gcs store requires bucket")
	}
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{client: client, bucket: bucket, publicBaseURL: publicBaseURL}
}

func (s *GCSStore) Store(ctx context.Context, blob Blob, folder string) (Asset, error) {
	key, contentType, err := ResolveObjectKey(folder, blob)
	if err != nil {
		return Asset{}, apperror.Validation("file", err.Error())
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(blob.Data); err != nil {
		_ = w.Close()
		return Asset{}, apperror.AssetStore("write object", err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, apperror.AssetStore("close object writer", err)
	}

	return Asset{ID: key, URL: joinURL(s.publicBaseURL, key)}, nil
}

func (s *GCSStore) Delete(ctx context.Context, assetID string) error {
	if strings.TrimSpace(assetID) == "" {
		return apperror.AssetStore("delete object", fmt.Errorf("asset id is required"))
	}
	err := s.client.Bucket(s.bucket).Object(assetID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return apperror.AssetStore("delete object", err)
	}
	return nil
}

func (s *GCSStore) Check(ctx context.Context, prefix string) error {
	if prefix == "" {
		return apperror.AssetStore("check", fmt.Errorf("storage prefix is required"))
	}

	bkt := s.client.Bucket(s.bucket)
	if _, err := bkt.Attrs(ctx); err != nil {
		return apperror.AssetStore("bucket attrs", err)
	}

	// List at most one object to validate access to the prefix; empty is fine.
	it := bkt.Objects(ctx, &storage.Query{Prefix: prefix})
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return apperror.AssetStore("list prefix", err)
	}
	return nil
}

var _ AssetStore = (*GCSStore)(nil)
