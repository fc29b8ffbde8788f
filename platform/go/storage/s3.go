package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/apperror"
)

// S3Config describes an S3-compatible bucket (AWS S3, MinIO, ...).
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

// S3Store keeps assets in an S3-compatible bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// S3StoreOption is a functional option for configuring S3Store.
type S3StoreOption func(*S3Store)

// WithS3Logger sets the logger for object-level debug output.
func WithS3Logger(logger *zap.Logger) S3StoreOption {
	return func(s *S3Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3Store builds an S3 client from static credentials and an optional custom endpoint.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3StoreOption) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		switch {
		case cfg.Endpoint != "":
			publicBaseURL = joinURL(cfg.Endpoint, cfg.Bucket)
		default:
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	store := &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func (s *S3Store) Store(ctx context.Context, blob Blob, folder string) (Asset, error) {
	key, contentType, err := ResolveObjectKey(folder, blob)
	if err != nil {
		return Asset{}, apperror.Validation("file", err.Error())
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Asset{}, apperror.AssetStore("put object", err)
	}
	s.logger.Debug("stored asset", zap.String("bucket", s.bucket), zap.String("key", key))

	return Asset{ID: key, URL: joinURL(s.publicBaseURL, key)}, nil
}

func (s *S3Store) Delete(ctx context.Context, assetID string) error {
	if strings.TrimSpace(assetID) == "" {
		return apperror.AssetStore("delete object", errors.New("asset id is required"))
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(assetID),
	})
	if err != nil {
		return apperror.AssetStore("delete object", err)
	}
	s.logger.Debug("deleted asset", zap.String("bucket", s.bucket), zap.String("key", assetID))
	return nil
}

func (s *S3Store) Check(ctx context.Context, prefix string) error {
	if prefix == "" {
		return apperror.AssetStore("check", errors.New("storage prefix is required"))
	}
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return apperror.AssetStore("head bucket", err)
	}
	return nil
}

var _ AssetStore = (*S3Store)(nil)
