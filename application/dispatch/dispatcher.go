package dispatch

import (
	"context"
	"io"
	"log"

	"audio-bridge/domain/job"
)

// Deliverer pushes a finished result to the job's callback address
type Deliverer interface {
	Deliver(ctx context.Context, j *job.Job, result job.Result) bool
}

// Dispatcher is the entry point shared by the HTTP handlers and the CLI.
// Async jobs are spawned and reported through a callback; sync jobs run inline.
type Dispatcher struct {
	runner    JobRunner
	spawner   Spawner
	deliverer Deliverer
	logger    *log.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithSpawner replaces the goroutine spawner
func WithSpawner(s Spawner) Option {
	return func(d *Dispatcher) {
		d.spawner = s
	}
}

// WithLogger sets the logger for dispatch events
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher. deliverer may be nil when only
// synchronous jobs are served.
func NewDispatcher(runner JobRunner, deliverer Deliverer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		runner:    runner,
		deliverer: deliverer,
		logger:    log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.spawner == nil {
		d.spawner = NewGoroutineSpawner(runner)
	}

	return d
}

// Submit validates an async request, starts its job and returns the queued
// reply immediately. The result is delivered to the callback address later;
// delivery failures are logged and dropped.
func (d *Dispatcher) Submit(ctx context.Context, req job.Request) (job.Result, error) {
	if err := req.ValidateAsync(); err != nil {
		return job.Rejected(err), err
	}

	j, err := job.New(req.URL, req.CallbackURL)
	if err != nil {
		return job.Rejected(err), err
	}

	d.logger.Printf("[JOB %s] queued %s", j.ID, j.SourceURL)

	results := d.spawner.Spawn(ctx, j)
	detached := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				d.logger.Printf("[JOB %s] callback delivery panicked, dropping result: %v", j.ID, p)
			}
		}()

		result, ok := <-results
		if !ok {
			result = job.Failure(j, nil)
		}
		if d.deliverer == nil {
			d.logger.Printf("[JOB %s] no callback deliverer configured, dropping result", j.ID)
			return
		}
		d.deliverer.Deliver(detached, j, result)
	}()

	return job.Accepted(j), nil
}

// RunSync validates a sync request and runs its job on the caller's
// goroutine. The job is not cancelled when ctx is.
func (d *Dispatcher) RunSync(ctx context.Context, req job.Request) (job.Result, error) {
	if err := req.ValidateSync(); err != nil {
		return job.Rejected(err), err
	}

	j, err := job.New(req.URL, "")
	if err != nil {
		return job.Rejected(err), err
	}

	d.logger.Printf("[JOB %s] running %s", j.ID, j.SourceURL)

	result := d.runner.Run(context.WithoutCancel(ctx), j)
	return result.Synchronous(), nil
}
