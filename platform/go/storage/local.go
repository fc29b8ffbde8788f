package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
)

// LocalStore writes assets below BaseDir and serves them from PublicBaseURL (see apps/api /uploads).
type LocalStore struct {
	BaseDir       string
	PublicBaseURL string
}

// NewLocalStore constructs a filesystem-backed store for local development.
func NewLocalStore(baseDir, publicBaseURL string) *LocalStore {
	if strings.TrimSpace(baseDir) == "" {
		panic("local store requires baseDir")
	}
	if publicBaseURL == "" {
		publicBaseURL = "/uploads"
	}
	return &LocalStore{BaseDir: baseDir, PublicBaseURL: publicBaseURL}
}

func (s *LocalStore) Store(ctx context.Context, blob Blob, folder string) (Asset, error) {
	key, _, err := ResolveObjectKey(folder, blob)
	if err != nil {
		return Asset{}, apperror.Validation("file", err.Error())
	}

	full, err := s.resolve(key)
	if err != nil {
		return Asset{}, apperror.AssetStore("resolve path", err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Asset{}, apperror.AssetStore("create folder", err)
	}
	if err := os.WriteFile(full, blob.Data, 0o644); err != nil {
		return Asset{}, apperror.AssetStore("write file", err)
	}

	return Asset{ID: key, URL: joinURL(s.PublicBaseURL, key)}, nil
}

func (s *LocalStore) Delete(ctx context.Context, assetID string) error {
	full, err := s.resolve(assetID)
	if err != nil {
		return apperror.AssetStore("resolve path", err)
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperror.AssetStore("remove file", err)
	}
	return nil
}

func (s *LocalStore) Check(ctx context.Context, prefix string) error {
	if prefix == "" {
		return apperror.AssetStore("check", fmt.Errorf("storage prefix is required"))
	}
	full, err := s.resolve(prefix)
	if err != nil {
		return apperror.AssetStore("resolve path", err)
	}
	// Ensure directory exists; this is safe/idempotent for local dev.
	if err := os.MkdirAll(full, 0o755); err != nil {
		return apperror.AssetStore("create prefix path", err)
	}
	return nil
}

// resolve maps a key under BaseDir and refuses anything that escapes it.
func (s *LocalStore) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	base, err := filepath.Abs(s.BaseDir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(base, filepath.FromSlash(key))
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes base dir", key)
	}
	return full, nil
}

var _ AssetStore = (*LocalStore)(nil)
