package gcs

import (
	"context"
	"fmt"
	"io"
	"os"

	"audio-bridge/domain/distribution"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/storage/v1"
)

// ObjectService defines the interface for Cloud Storage API operations
// This allows mocking the Cloud Storage API in tests
type ObjectService interface {
	InsertObject(ctx context.Context, bucket string, object *storage.Object, media io.Reader) (*storage.Object, error)
}

// GoogleObjectService is the production implementation using the Cloud Storage JSON API
type GoogleObjectService struct {
	service *storage.Service
}

// InsertObject uploads media as a new object
func (s *GoogleObjectService) InsertObject(ctx context.Context, bucket string, object *storage.Object, media io.Reader) (*storage.Object, error) {
	return s.service.Objects.Insert(bucket, object).
		Media(media, googleapi.ContentType(object.ContentType)).
		Context(ctx).
		Do()
}

// Client implements distribution.ObjectStore using Cloud Storage
type Client struct {
	objects    ObjectService
	publicHost string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithObjectService sets a custom object service (for testing)
func WithObjectService(svc ObjectService) ClientOption {
	return func(c *Client) {
		c.objects = svc
	}
}

// WithPublicHost sets the host used to build retrieval URLs
func WithPublicHost(host string) ClientOption {
	return func(c *Client) {
		if host != "" {
			c.publicHost = host
		}
	}
}

// NewClient creates a new Cloud Storage client
// If no object service is provided, it authenticates with the credentials file
// or, when that is empty, with Application Default Credentials
func NewClient(ctx context.Context, credentialsPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{publicHost: distribution.DefaultPublicHost}

	for _, opt := range opts {
		opt(c)
	}

	if c.objects == nil {
		svc, err := newGoogleObjectService(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		c.objects = svc
	}

	return c, nil
}

// Upload implements distribution.ObjectStore
func (c *Client) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	if req.Bucket == "" {
		return nil, distribution.ErrBucketNotConfigured
	}

	f, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", req.LocalPath, err)
	}
	defer f.Close()

	object := &storage.Object{
		Name:        req.Key,
		ContentType: req.ContentType,
	}

	uploaded, err := c.objects.InsertObject(ctx, req.Bucket, object, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.Key, err)
	}

	return &distribution.UploadResult{
		Bucket:    req.Bucket,
		Key:       req.Key,
		PublicURL: distribution.PublicURL(c.publicHost, req.Bucket, req.Key),
		Size:      int64(uploaded.Size),
	}, nil
}

// Ensure Client implements distribution.ObjectStore
var _ distribution.ObjectStore = (*Client)(nil)
