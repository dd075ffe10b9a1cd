package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"audio-bridge/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the server mode, the Cloud Storage bucket
and the yt-dlp settings. Environment variables still override the file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "config/config.yaml"
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to audio-bridge setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}

	if err := promptExtraction(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	mode, err := prompter.Select("Dispatch mode?", []string{config.ModeAsync, config.ModeSync}, cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Server.Mode = mode

	port, err := prompter.Input("Port to listen on?", strconv.Itoa(cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
		cfg.Server.Port = n
	}

	if mode == config.ModeAsync {
		timeout, err := prompter.Input("Callback timeout?", cfg.Callback.Timeout.String())
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if timeout != "" {
			d, err := time.ParseDuration(timeout)
			if err != nil {
				return fmt.Errorf("invalid callback timeout %q", timeout)
			}
			cfg.Callback.Timeout = d
		}
	}

	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	bucket, err := prompter.Input("Cloud Storage bucket (leave empty to use GCS_BUCKET)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Storage.Bucket = bucket

	prefix, err := prompter.Input("Object key prefix?", cfg.Storage.Prefix)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if prefix != "" {
		cfg.Storage.Prefix = prefix
	}

	useKey, err := prompter.Confirm("Use a service account key file instead of default credentials?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if useKey {
		credentials, err := prompter.Input("Path to service account key?", "credentials.json")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if credentials == "" {
			return fmt.Errorf("credentials file is required")
		}
		cfg.Storage.CredentialsFile = credentials
	}

	return nil
}

func promptExtraction(prompter Prompter, cfg *config.Config) error {
	binary, err := prompter.Input("Path to yt-dlp?", cfg.Extraction.Binary)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if binary != "" {
		cfg.Extraction.Binary = binary
	}

	workDir, err := prompter.Input("Directory for temporary downloads?", cfg.Extraction.WorkDir)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if workDir != "" {
		cfg.Extraction.WorkDir = workDir
	}

	quality, err := prompter.Input("Audio bitrate in kbps?", cfg.Extraction.AudioQuality)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if quality != "" {
		cfg.Extraction.AudioQuality = quality
	}

	cookies, err := prompter.Input("Cookies file (used only if it exists)?", cfg.Extraction.CookiesFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Extraction.CookiesFile = cookies

	return nil
}
