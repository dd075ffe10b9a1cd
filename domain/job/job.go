package job

import (
	"strings"

	"github.com/google/uuid"
)

// State is the lifecycle position of a job
type State string

const (
	StateCreated   State = "created"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Job is one extraction-and-upload request. It lives only for the duration of
// its execution and is never stored.
type Job struct {
	ID          string
	SourceURL   string
	CallbackURL string // empty for synchronous jobs
	State       State
}

// New creates a job with a fresh identifier. Two calls with the same source
// always produce two distinct jobs.
func New(sourceURL, callbackURL string) (*Job, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, ErrMissingURL
	}

	return &Job{
		ID:          uuid.New().String(),
		SourceURL:   sourceURL,
		CallbackURL: strings.TrimSpace(callbackURL),
		State:       StateCreated,
	}, nil
}

// Start marks the job as running
func (j *Job) Start() {
	j.State = StateRunning
}

// Finish moves the job to its terminal state based on the result
func (j *Job) Finish(result Result) {
	if result.OK() {
		j.State = StateSucceeded
		return
	}
	j.State = StateFailed
}
