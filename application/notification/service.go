package notification

import (
	"context"
	"io"
	"log"

	"audio-bridge/domain/job"
	"audio-bridge/domain/notification"
)

// Service delivers finished job results to their callback addresses
type Service struct {
	notifier notification.Notifier
	logger   *log.Logger
}

// NewService creates a new notification service
func NewService(notifier notification.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		notifier: notifier,
		logger:   logger,
	}
}

// Deliver posts the result to the job's callback address.
// Failures are logged and dropped; there is no retry and nothing is returned
// to the caller, who already received the queued reply.
func (s *Service) Deliver(ctx context.Context, j *job.Job, result job.Result) bool {
	cb := &notification.Callback{
		URL:    j.CallbackURL,
		Result: result,
	}

	if err := s.notifier.Notify(ctx, cb); err != nil {
		s.logger.Printf("[JOB %s] callback to %s failed: %v", j.ID, j.CallbackURL, err)
		return false
	}

	s.logger.Printf("[JOB %s] callback delivered (%s)", j.ID, result.Status)
	return true
}
