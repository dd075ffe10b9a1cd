package distribution

import (
	"context"
	"fmt"
	"path/filepath"

	"audio-bridge/domain/distribution"
)

// UploadService stores finished audio files under the service's key namespace
type UploadService struct {
	store  distribution.ObjectStore
	bucket string
	prefix string
}

// NewUploadService creates a new upload service. An empty bucket is accepted
// here and reported on every upload instead.
func NewUploadService(store distribution.ObjectStore, bucket, prefix string) *UploadService {
	return &UploadService{
		store:  store,
		bucket: bucket,
		prefix: prefix,
	}
}

// Configured reports whether a target bucket is set
func (s *UploadService) Configured() bool {
	return s.bucket != "" && s.store != nil
}

// UploadAudio uploads a local audio file and returns its public URL
func (s *UploadService) UploadAudio(ctx context.Context, audioPath string) (*distribution.UploadResult, error) {
	// Checked before the client sees the request so the caller gets a domain error
	if !s.Configured() {
		return nil, distribution.ErrBucketNotConfigured
	}

	fileName := filepath.Base(audioPath)

	req := distribution.UploadRequest{
		LocalPath:   audioPath,
		Bucket:      s.bucket,
		Key:         distribution.ObjectKey(s.prefix, fileName),
		ContentType: distribution.ContentTypeFor(fileName),
	}

	result, err := s.store.Upload(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload of %s failed: %w", fileName, err)
	}

	return result, nil
}
