package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"audio-bridge/application/dispatch"
	"audio-bridge/domain/job"

	"github.com/spf13/cobra"
)

var downloadURL string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Run one extraction job and print the result",
	Long: `Extract the audio of a single URL, upload it and print the result JSON,
exactly as the sync HTTP mode would return it.

Example:
  audio-bridge download --url https://example.com/clip`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadURL, "url", "", "Media URL to extract (required)")
	downloadCmd.MarkFlagRequired("url")
}

func runDownload(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	runner, err := buildRunner(ctx, c, logger)
	if err != nil {
		return err
	}

	return RunDownloadWithDependencies(ctx, runner, downloadURL, os.Stdout)
}

// RunDownloadWithDependencies runs one sync job with injected dependencies (for testing).
// The result is always printed; a failed job also returns an error.
func RunDownloadWithDependencies(ctx context.Context, runner dispatch.JobRunner, url string, output io.Writer) error {
	dispatcher := dispatch.NewDispatcher(runner, nil)

	result, err := dispatcher.RunSync(ctx, job.Request{URL: url})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if !result.OK() {
		return errors.New(result.Message)
	}
	return nil
}
