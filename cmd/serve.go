package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"audio-bridge/application/dispatch"
	appnotif "audio-bridge/application/notification"
	"audio-bridge/infrastructure/config"
	"audio-bridge/infrastructure/httpserver"
	"audio-bridge/infrastructure/webhook"

	"github.com/spf13/cobra"
)

var (
	servePort int
	serveMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Serve POST /download-audio.

In async mode the request must carry "url" and "callback_url". The reply is
202 {"status":"queued","job_id":...} and the result is POSTed to the callback
when the job finishes.

In sync mode only "url" is required and the job runs inside the request.
The reply is 200 with the result, or 500 if the job failed.

Example:
  audio-bridge serve
  audio-bridge serve --mode sync --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Dispatch mode: async or sync (overrides config and DISPATCH_MODE)")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		c.Server.Port = servePort
	}
	if serveMode != "" {
		c.Server.Mode = serveMode
	}
	if err := c.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	extractor := buildExtractor(c)
	if err := extractor.VerifyInstalled(ctx); err != nil {
		logger.Printf("warning: %v", err)
	}

	runner, err := buildRunner(ctx, c, logger)
	if err != nil {
		return err
	}

	return RunServeWithDependencies(ctx, c, runner, logger)
}

// RunServeWithDependencies serves HTTP until ctx is cancelled
func RunServeWithDependencies(ctx context.Context, c *config.Config, runner dispatch.JobRunner, logger *log.Logger) error {
	notifier := webhook.NewClient(webhook.WithTimeout(c.Callback.Timeout))
	dispatcher := dispatch.NewDispatcher(
		runner,
		appnotif.NewService(notifier, logger),
		dispatch.WithLogger(logger),
	)

	handler := httpserver.NewHandler(dispatcher, c.Server.Mode, logger)
	server := httpserver.NewServer(
		c.Server.Port,
		handler.Routes(),
		httpserver.WithShutdownTimeout(c.Server.ShutdownTimeout),
		httpserver.WithLogger(logger),
	)

	logger.Printf("mode=%s bucket=%q work_dir=%s", c.Server.Mode, c.Storage.Bucket, c.Extraction.WorkDir)
	return server.Run(ctx)
}
