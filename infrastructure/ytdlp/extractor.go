package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"audio-bridge/domain/media"
	"audio-bridge/infrastructure/filesystem"
)

// Extractor implements media.AudioExtractor using the yt-dlp binary
type Extractor struct {
	binaryPath  string
	cookiesFile string
	timeout     time.Duration
	runner      CommandRunner
	fileChecker media.FileChecker
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithBinaryPath sets a custom yt-dlp executable path
func WithBinaryPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.binaryPath = path
		}
	}
}

// WithCookiesFile passes a Netscape cookie file to the engine when it exists
func WithCookiesFile(path string) ExtractorOption {
	return func(e *Extractor) {
		e.cookiesFile = path
	}
}

// WithTimeout bounds a single extraction. Zero means no deadline.
func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithFileChecker sets a custom file checker (for testing)
func WithFileChecker(checker media.FileChecker) ExtractorOption {
	return func(e *Extractor) {
		e.fileChecker = checker
	}
}

// NewExtractor creates a new yt-dlp based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		binaryPath:  "yt-dlp",
		runner:      &ExecCommandRunner{},
		fileChecker: filesystem.NewChecker(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// videoInfo is the subset of the engine's info JSON we rely on
type videoInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Ext         string `json:"ext"`
	Filename    string `json:"_filename"`
	AltFilename string `json:"filename"`
}

// Extract implements media.AudioExtractor
func (e *Extractor) Extract(ctx context.Context, req *media.ExtractionRequest) (*media.ExtractionResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.runner.Output(ctx, e.binaryPath, e.buildArgs(req)...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	info, err := parseInfo(out)
	if err != nil {
		return nil, fmt.Errorf("unable to read yt-dlp metadata: %w", err)
	}

	// The engine reports the pre-transcode name; the file on disk carries the codec extension.
	finalPath := media.FinalPath(info.reportedPath(req.WorkDir))
	if !e.fileChecker.Exists(finalPath) {
		return nil, media.ErrOutputNotFound
	}

	return &media.ExtractionResult{
		MediaID:        info.ID,
		Title:          info.Title,
		SourceExt:      info.Ext,
		LocalAudioPath: finalPath,
	}, nil
}

// buildArgs assembles the fixed best-audio, transcode-to-mp3 directive
func (e *Extractor) buildArgs(req *media.ExtractionRequest) []string {
	args := []string{
		"-f", media.FormatSelector,
		"-x",                                // Extract audio
		"--audio-format", media.AudioFormat, // Transcode to mp3
		"--audio-quality", audioQuality(req.AudioQuality),
		"-o", req.OutputTemplate(),
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--no-progress",
		"-j", "--no-simulate", // Print info JSON and still download
	}

	if e.cookiesFile != "" && e.fileChecker.Exists(e.cookiesFile) {
		args = append(args, "--cookies", e.cookiesFile)
	}

	return append(args, "--", req.SourceURL)
}

// VerifyInstalled checks that yt-dlp is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	if _, err := e.runner.Output(ctx, e.binaryPath, "--version"); err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return nil
}

// audioQuality turns a bare kbps value into the engine's bitrate form
func audioQuality(q string) string {
	if q == "" {
		q = media.DefaultAudioQuality
	}
	if strings.Trim(q, "0123456789") == "" {
		return q + "K"
	}
	return q
}

// parseInfo reads the last JSON object the engine printed
func parseInfo(out []byte) (*videoInfo, error) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var info videoInfo
		if err := json.Unmarshal(line, &info); err != nil {
			return nil, err
		}
		return &info, nil
	}
	return nil, fmt.Errorf("no metadata in output")
}

func (v *videoInfo) reportedPath(workDir string) string {
	switch {
	case v.Filename != "":
		return v.Filename
	case v.AltFilename != "":
		return v.AltFilename
	default:
		return filepath.Join(workDir, v.ID+"."+v.Ext)
	}
}

// Ensure Extractor implements media.AudioExtractor
var _ media.AudioExtractor = (*Extractor)(nil)
