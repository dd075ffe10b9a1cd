package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"audio-bridge/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	Long: `Inspect the configuration after defaults, config.yaml, .env and the
environment have been applied.

Examples:
  audio-bridge config show
  GCS_BUCKET=podcasts audio-bridge config show`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigShowWithDependencies(c, DefaultOutput)
}

// RunConfigShowWithDependencies prints the settings with injected dependencies
func RunConfigShowWithDependencies(c *config.Config, out OutputWriter) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	bucket := c.Storage.Bucket
	if bucket == "" {
		bucket = "(not set)"
	}
	credentials := c.Storage.CredentialsFile
	if credentials == "" {
		credentials = "(application default)"
	}
	timeout := "none"
	if c.Extraction.Timeout > 0 {
		timeout = c.Extraction.Timeout.String()
	}

	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "server.port\t%d\n", c.Server.Port)
	fmt.Fprintf(w, "server.mode\t%s\n", c.Server.Mode)
	fmt.Fprintf(w, "server.shutdown_timeout\t%s\n", c.Server.ShutdownTimeout)
	fmt.Fprintf(w, "storage.bucket\t%s\n", bucket)
	fmt.Fprintf(w, "storage.prefix\t%s\n", c.Storage.Prefix)
	fmt.Fprintf(w, "storage.public_host\t%s\n", c.Storage.PublicHost)
	fmt.Fprintf(w, "storage.credentials_file\t%s\n", credentials)
	fmt.Fprintf(w, "extraction.binary\t%s\n", c.Extraction.Binary)
	fmt.Fprintf(w, "extraction.work_dir\t%s\n", c.Extraction.WorkDir)
	fmt.Fprintf(w, "extraction.audio_quality\t%s\n", c.Extraction.AudioQuality)
	fmt.Fprintf(w, "extraction.cookies_file\t%s\n", c.Extraction.CookiesFile)
	fmt.Fprintf(w, "extraction.timeout\t%s\n", timeout)
	fmt.Fprintf(w, "callback.timeout\t%s\n", c.Callback.Timeout)

	if err := w.Flush(); err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		fmt.Fprintf(out, "\nwarning: %v\n", err)
	}
	return nil
}
