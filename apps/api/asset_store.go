package main

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

const (
	storageBackendGCS   = "gcs"
	storageBackendS3    = "s3"
	storageBackendLocal = "local"
)

type storageConfig struct {
	Backend       string `env:"STORAGE_BACKEND" envDefault:"local"` // gcs | s3 | local
	Bucket        string `env:"STORAGE_BUCKET"`                     // required for gcs and s3
	LocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"./.data/storage"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`

	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
}

// buildAssetStore selects the asset backend. The returned close func is always safe to call.
func buildAssetStore(ctx context.Context, cfg storageConfig, logger *zap.Logger) (storage.AssetStore, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case storageBackendGCS:
		if cfg.Bucket == "" {
			return nil, noop, fmt.Errorf("STORAGE_BUCKET required when STORAGE_BACKEND=gcs")
		}
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("init gcs client: %w", err)
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("close gcs client", zap.Error(err))
			}
		}
		return storage.NewGCSStore(client, cfg.Bucket, cfg.PublicBaseURL), closeClient, nil
	case storageBackendS3:
		if cfg.Bucket == "" {
			return nil, noop, fmt.Errorf("STORAGE_BUCKET required when STORAGE_BACKEND=s3")
		}
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.PublicBaseURL,
		}, storage.WithS3Logger(logger))
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case storageBackendLocal:
		if strings.TrimSpace(cfg.LocalDir) == "" {
			return nil, noop, fmt.Errorf("STORAGE_LOCAL_DIR required when STORAGE_BACKEND=local")
		}
		return storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL), noop, nil
	default:
		return nil, noop, fmt.Errorf("invalid STORAGE_BACKEND %q (use gcs, s3 or local)", cfg.Backend)
	}
}
