package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FormatSelector asks the engine for the best audio-only stream
	FormatSelector = "bestaudio/best"

	// AudioFormat is the codec every job is transcoded to
	AudioFormat = "mp3"

	// DefaultAudioQuality is the target bitrate in kbps
	DefaultAudioQuality = "192"

	// outputName names files by media id inside the per-job directory
	outputName = "%(id)s.%(ext)s"
)

// ExtractionRequest represents a request to extract audio from a source URL
type ExtractionRequest struct {
	SourceURL    string
	WorkDir      string // per-job directory, unique per job
	AudioQuality string
}

// NewExtractionRequest creates a new ExtractionRequest with validation
func NewExtractionRequest(sourceURL, workDir, quality string) (*ExtractionRequest, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("source url is required")
	}
	if workDir == "" {
		return nil, fmt.Errorf("work directory is required")
	}

	if quality == "" {
		quality = DefaultAudioQuality
	}

	return &ExtractionRequest{
		SourceURL:    sourceURL,
		WorkDir:      workDir,
		AudioQuality: quality,
	}, nil
}

// OutputTemplate returns the engine output template rooted in the job directory
func (r *ExtractionRequest) OutputTemplate() string {
	return filepath.Join(r.WorkDir, outputName)
}

// FinalPath maps the engine's pre-transcode filename to the transcoded file.
// The postprocessor swaps the container extension for the codec's.
func FinalPath(reportedPath string) string {
	ext := filepath.Ext(reportedPath)
	return strings.TrimSuffix(reportedPath, ext) + "." + AudioFormat
}
