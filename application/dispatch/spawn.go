package dispatch

import (
	"context"

	"audio-bridge/domain/job"
)

// JobRunner executes a single job to a terminal result
type JobRunner interface {
	Run(ctx context.Context, j *job.Job) job.Result
}

// Spawner starts a job on an independent unit of execution.
// The contract is detached: the caller cannot join or cancel the job. The
// returned channel yields exactly one result and is then closed.
type Spawner interface {
	Spawn(ctx context.Context, j *job.Job) <-chan job.Result
}

// GoroutineSpawner runs each job on its own goroutine
type GoroutineSpawner struct {
	runner JobRunner
}

// NewGoroutineSpawner creates a spawner backed by runner
func NewGoroutineSpawner(runner JobRunner) *GoroutineSpawner {
	return &GoroutineSpawner{runner: runner}
}

// Spawn starts the job. The job context keeps ctx's values but not its
// cancellation, so the job outlives the request that launched it.
func (s *GoroutineSpawner) Spawn(ctx context.Context, j *job.Job) <-chan job.Result {
	results := make(chan job.Result, 1)
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(results)
		results <- s.runner.Run(detached, j)
	}()

	return results
}

var _ Spawner = (*GoroutineSpawner)(nil)
