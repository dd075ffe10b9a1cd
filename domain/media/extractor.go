package media

import "context"

// AudioExtractor defines the interface for pulling an audio track from a remote source
// This is a port that can be implemented by different infrastructure adapters
type AudioExtractor interface {
	// Extract downloads the source and transcodes its best audio stream.
	// A nil error guarantees LocalAudioPath exists on disk.
	Extract(ctx context.Context, req *ExtractionRequest) (*ExtractionResult, error)
}

// FileChecker defines the interface for inspecting local files
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// ExtractionResult is the metadata and final artifact of one extraction
type ExtractionResult struct {
	MediaID        string
	Title          string
	SourceExt      string // container extension before transcoding
	LocalAudioPath string
}
