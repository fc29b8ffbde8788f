package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxBlobBytes caps a single uploaded asset.
const MaxBlobBytes = 2 << 20

// Blob is an opaque binary handed over by a caller.
type Blob struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Asset is a stored blob. ID is the backend object key and is what Delete expects.
type Asset struct {
	ID  string `json:"assetId"`
	URL string `json:"url"`
}

// AssetStore persists blobs and hands back stable public URLs.
// Every failure is wrapped with apperror.ErrAssetStore.
type AssetStore interface {
	Store(ctx context.Context, blob Blob, folder string) (Asset, error)
	Delete(ctx context.Context, assetID string) error
	// Check verifies the backend is reachable for the given prefix; it never writes objects.
	Check(ctx context.Context, prefix string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage sniffs the blob content and returns the canonical extension.
func ValidateImage(blob Blob) (string, error) {
	if len(blob.Data) == 0 {
		return "", fmt.Errorf("file is empty")
	}
	if len(blob.Data) > MaxBlobBytes {
		return "", fmt.Errorf("file exceeds %d bytes", MaxBlobBytes)
	}
	detected := http.DetectContentType(blob.Data)
	ext, ok := allowedImageTypes[detected]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", detected)
	}
	return ext, nil
}

// ResolveObjectKey builds "<folder>/<random id><ext>" for a new object.
//   - folder is usually tenant.Space.Folder(section), e.g. "dev/tenants/1a2b3c4d/profile".
//   - the extension is derived from the sniffed content type, not the client filename.
func ResolveObjectKey(folder string, blob Blob) (string, string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return "", "", fmt.Errorf("folder is required")
	}
	ext, err := ValidateImage(blob)
	if err != nil {
		return "", "", err
	}
	return path.Join(folder, uuid.NewString()+ext), contentTypeFor(ext), nil
}

func contentTypeFor(ext string) string {
	for ct, e := range allowedImageTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
