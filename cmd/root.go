package cmd

import (
	"fmt"
	"os"

	"audio-bridge/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

// OutputWriter abstracts command output for testing
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

var rootCmd = &cobra.Command{
	Use:   "audio-bridge",
	Short: "Extract audio from media URLs and publish it to Cloud Storage",
	Long: `audio-bridge turns a media URL into a hosted mp3:

  - Extract the best audio track with yt-dlp
  - Transcode it to mp3
  - Upload it to a Google Cloud Storage bucket
  - Report the public URL in the HTTP response or through a callback

Example:
  audio-bridge serve --mode async --port 8080
  audio-bridge download --url https://example.com/clip`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	cfg, cfgErr = loadConfig(cfgFile, ".env", os.LookupEnv)
}

// loadConfig resolves defaults, the YAML file, .env and the environment, in that order
func loadConfig(path, dotEnvPath string, lookup config.LookupFunc) (*config.Config, error) {
	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if err := c.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	return c, nil
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
