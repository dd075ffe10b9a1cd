package distribution

import (
	"context"
	"errors"
)

// ErrBucketNotConfigured is returned before any upload when no bucket is set
var ErrBucketNotConfigured = errors.New("storage bucket not configured (GCS_BUCKET)")

// ObjectStore defines the interface for durable object storage
// This is a port that can be implemented by different infrastructure adapters
type ObjectStore interface {
	// Upload stores the local file under req.Bucket/req.Key
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}
