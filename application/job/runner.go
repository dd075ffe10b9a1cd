package job

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"audio-bridge/domain/distribution"
	"audio-bridge/domain/job"
	"audio-bridge/domain/media"
)

// Workspace abstracts the local filesystem used for per-job temporary files
type Workspace interface {
	EnsureDir(path string) error
	Exists(path string) bool
	Size(path string) int64
	Remove(path string) error
	RemoveDir(path string) error
}

// Uploader stores a finished audio file
type Uploader interface {
	UploadAudio(ctx context.Context, audioPath string) (*distribution.UploadResult, error)
}

// Runner executes one job: extract, verify output, upload, assemble the
// result, and clean up. Every path ends in cleanup.
type Runner struct {
	extractor    media.AudioExtractor
	uploader     Uploader
	workspace    Workspace
	workDir      string
	audioQuality string
	logger       *log.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLogger sets the logger used for job progress lines
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithAudioQuality sets the target bitrate passed to the extractor
func WithAudioQuality(quality string) RunnerOption {
	return func(r *Runner) {
		r.audioQuality = quality
	}
}

// NewRunner creates a new job runner. Temporary files go under
// workDir/<job id>.
func NewRunner(extractor media.AudioExtractor, uploader Uploader, workspace Workspace, workDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		extractor:    extractor,
		uploader:     uploader,
		workspace:    workspace,
		workDir:      workDir,
		audioQuality: media.DefaultAudioQuality,
		logger:       log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the job and always returns a well-formed result. It never
// panics; unexpected failures become error results.
func (r *Runner) Run(ctx context.Context, j *job.Job) (result job.Result) {
	j.Start()
	jobDir := filepath.Join(r.workDir, j.ID)
	var audioPath string

	defer func() {
		if p := recover(); p != nil {
			r.logf(j, "recovered from panic: %v", p)
			result = job.Failure(j, fmt.Errorf("unexpected error: %v", p))
		}
		r.cleanup(j, jobDir, audioPath)
		j.Finish(result)
		r.logf(j, "finished: %s", result.Status)
	}()

	r.logf(j, "extracting audio from %s", j.SourceURL)

	if err := r.workspace.EnsureDir(jobDir); err != nil {
		return r.fail(j, fmt.Errorf("failed to create work directory: %w", err))
	}

	req, err := media.NewExtractionRequest(j.SourceURL, jobDir, r.audioQuality)
	if err != nil {
		return r.fail(j, err)
	}

	extracted, err := r.extractor.Extract(ctx, req)
	if err != nil {
		return r.fail(j, err)
	}
	audioPath = extracted.LocalAudioPath

	if audioPath == "" || !r.workspace.Exists(audioPath) {
		return r.fail(j, media.ErrOutputNotFound)
	}
	localSize := r.workspace.Size(audioPath)

	r.logf(j, "uploading %s (%d bytes, transcoded from %s)", filepath.Base(audioPath), localSize, extracted.SourceExt)
	uploaded, err := r.uploader.UploadAudio(ctx, audioPath)
	if err != nil {
		return r.fail(j, err)
	}

	fileSize := uploaded.Size
	if fileSize == 0 {
		fileSize = localSize
	}

	r.logf(j, "uploaded to %s", uploaded.PublicURL)
	return job.Success(j, extracted.Title, uploaded.PublicURL, fileSize)
}

func (r *Runner) fail(j *job.Job, err error) job.Result {
	r.logf(j, "failed: %v", err)
	return job.Failure(j, err)
}

// cleanup removes the audio file, then the job directory with any partial
// downloads the engine left behind
func (r *Runner) cleanup(j *job.Job, jobDir, audioPath string) {
	if audioPath != "" && r.workspace.Exists(audioPath) {
		if err := r.workspace.Remove(audioPath); err != nil {
			r.logf(j, "failed to remove %s: %v", audioPath, err)
		}
	}
	if err := r.workspace.RemoveDir(jobDir); err != nil {
		r.logf(j, "failed to remove %s: %v", jobDir, err)
	}
}

func (r *Runner) logf(j *job.Job, format string, args ...any) {
	r.logger.Printf("[JOB %s] "+format, append([]any{j.ID}, args...)...)
}
