package gcs

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
)

// newGoogleObjectService creates a production Cloud Storage service
func newGoogleObjectService(ctx context.Context, credentialsPath string) (*GoogleObjectService, error) {
	client, err := authenticatedClient(ctx, credentialsPath)
	if err != nil {
		return nil, err
	}

	srv, err := storage.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create storage service: %w", err)
	}

	return &GoogleObjectService{service: srv}, nil
}

// authenticatedClient returns an HTTP client scoped for object writes
func authenticatedClient(ctx context.Context, credentialsPath string) (*http.Client, error) {
	if credentialsPath == "" {
		client, err := google.DefaultClient(ctx, storage.DevstorageReadWriteScope)
		if err != nil {
			return nil, fmt.Errorf("unable to find default credentials: %w", err)
		}
		return client, nil
	}

	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, storage.DevstorageReadWriteScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	return config.Client(ctx), nil
}
