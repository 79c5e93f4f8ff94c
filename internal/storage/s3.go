package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"medbook/config"
)

type S3Storage struct {
	client  *minio.Client
	cfg     config.S3Config
	baseURL string
	logger  *zap.Logger
}

func NewS3Storage(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("created bucket", zap.String("bucket", cfg.Bucket))
	}

	return &S3Storage{
		client:  client,
		cfg:     cfg,
		baseURL: objectBaseURL(cfg),
		logger:  logger,
	}, nil
}

func objectBaseURL(cfg config.S3Config) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, cfg.Endpoint, cfg.Bucket)
}

func (s *S3Storage) UploadImage(ctx context.Context, prefix string, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	fileType := http.DetectContentType(data)
	if !strings.HasPrefix(fileType, "image/") {
		return "", fmt.Errorf("file is not an image: %s", fileType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		switch fileType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".bin"
		}
	}

	objectName := path.Join(prefix, uuid.New().String()+ext)
	return s.UploadObject(ctx, objectName, data, fileType)
}

func (s *S3Storage) UploadObject(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	return s.baseURL + objectName, nil
}

func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	objectName, err := objectNameFromURL(s.baseURL, fileURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

func (s *S3Storage) GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error) {
	objectName, err := objectNameFromURL(s.baseURL, fileURL)
	if err != nil {
		return "", err
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}

	return presignedURL.String(), nil
}

func objectNameFromURL(baseURL, fileURL string) (string, error) {
	objectName, ok := strings.CutPrefix(fileURL, baseURL)
	if !ok || objectName == "" {
		return "", fmt.Errorf("file url %q does not belong to this bucket", fileURL)
	}
	return objectName, nil
}
