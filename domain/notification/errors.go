package notification

import "errors"

var (
	// ErrNoCallbackURL is returned when a notification has no destination
	ErrNoCallbackURL = errors.New("callback url is required")

	// ErrCallbackFailed is returned when the callback could not be delivered
	ErrCallbackFailed = errors.New("failed to deliver callback")
)
