// Package storage provides the S3-compatible object store used for voice
// clips. Clips are ephemeral media: uploaded either by clients through
// presigned URLs or by the server when an inline clip is too large to relay,
// and deleted by the retention janitor once their window expires.
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the voice clip store.
type StorageService interface {
	// Upload writes an object directly from the server.
	Upload(ctx context.Context, key string, mimeType string, data []byte) error

	// PresignUpload generates a pre-signed URL for a client-side upload.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a clip.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
