package notification

import (
	"context"

	"audio-bridge/domain/job"
)

// Callback is one outbound result notification
type Callback struct {
	URL    string
	Result job.Result
}

// Validate checks that the callback can be sent
func (c *Callback) Validate() error {
	if c.URL == "" {
		return ErrNoCallbackURL
	}
	return nil
}

// Notifier defines the interface for pushing job results to callers
type Notifier interface {
	Notify(ctx context.Context, cb *Callback) error
}
