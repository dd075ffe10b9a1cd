package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "audio-bridge/application/distribution"
	"audio-bridge/domain/distribution"
	"audio-bridge/infrastructure/config"

	"github.com/spf13/cobra"
)

var uploadFilePath string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a local audio file to Cloud Storage",
	Long: `Upload an existing audio file under the configured bucket and prefix,
and print its public URL.

The object key is <prefix>/<file name>, the same key a job would use.

Example:
  audio-bridge upload --file ./abc123.mp3`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFilePath, "file", "", "Path to the audio file (required)")
	uploadCmd.MarkFlagRequired("file")
}

func runUpload(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := buildObjectStore(ctx, c)
	if err != nil {
		return err
	}

	return RunUploadWithDependencies(ctx, store, c.Storage, uploadFilePath, os.Stdout)
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	store distribution.ObjectStore,
	storage config.StorageConfig,
	filePath string,
	output io.Writer,
) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	service := appdist.NewUploadService(store, storage.Bucket, storage.Prefix)

	fmt.Fprintf(output, "Uploading audio: %s...\n", filepath.Base(filePath))
	result, err := service.UploadAudio(ctx, filePath)
	if err != nil {
		return fmt.Errorf("audio upload failed: %w", err)
	}

	fmt.Fprintf(output, "Audio uploaded successfully!\n")
	fmt.Fprintf(output, "  Object: gs://%s/%s\n", result.Bucket, result.Key)
	fmt.Fprintf(output, "  Size: %.2f MB\n", float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "  Public URL: %s\n", result.PublicURL)
	return nil
}
