package cmd

import (
	"context"
	"fmt"
	"log"

	appdist "audio-bridge/application/distribution"
	appjob "audio-bridge/application/job"
	"audio-bridge/domain/distribution"
	"audio-bridge/infrastructure/config"
	"audio-bridge/infrastructure/filesystem"
	"audio-bridge/infrastructure/gcs"
	"audio-bridge/infrastructure/ytdlp"
)

// buildExtractor creates the yt-dlp adapter from configuration
func buildExtractor(c *config.Config) *ytdlp.Extractor {
	return ytdlp.NewExtractor(
		ytdlp.WithBinaryPath(c.Extraction.Binary),
		ytdlp.WithCookiesFile(c.Extraction.CookiesFile),
		ytdlp.WithTimeout(c.Extraction.Timeout),
	)
}

// buildObjectStore creates the Cloud Storage client. Without a bucket no
// client is created; every job then fails with the not-configured error.
func buildObjectStore(ctx context.Context, c *config.Config) (distribution.ObjectStore, error) {
	if c.Storage.Bucket == "" {
		return nil, nil
	}

	client, err := gcs.NewClient(ctx, c.Storage.CredentialsFile, gcs.WithPublicHost(c.Storage.PublicHost))
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Storage client: %w", err)
	}
	return client, nil
}

// buildRunner wires the production job runner
func buildRunner(ctx context.Context, c *config.Config, logger *log.Logger) (*appjob.Runner, error) {
	store, err := buildObjectStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if store == nil {
		logger.Printf("warning: %v; jobs will fail until it is set", distribution.ErrBucketNotConfigured)
	}

	uploader := appdist.NewUploadService(store, c.Storage.Bucket, c.Storage.Prefix)

	return appjob.NewRunner(
		buildExtractor(c),
		uploader,
		filesystem.NewChecker(),
		c.Extraction.WorkDir,
		appjob.WithLogger(logger),
		appjob.WithAudioQuality(c.Extraction.AudioQuality),
	), nil
}
