package storage

import (
	"context"
	"time"
)

// FileStorage keeps binary objects and hands out URLs for them. Returned
// object URLs are stable identifiers; use GetPresignedURL for downloads.
type FileStorage interface {
	// UploadImage stores an image under prefix and rejects anything that
	// does not sniff as image/*.
	UploadImage(ctx context.Context, prefix string, data []byte, filename string) (string, error)

	// UploadObject stores data under the exact object name.
	UploadObject(ctx context.Context, objectName string, data []byte, contentType string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)
}

const (
	PrefixDoctorPhotos = "doctors"
	PrefixReports      = "reports"
)
