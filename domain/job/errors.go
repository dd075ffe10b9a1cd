package job

import "errors"

var (
	// ErrMissingURL is returned when a request has no source url
	ErrMissingURL = errors.New("missing url")

	// ErrMissingCallbackURL is returned when an async request lacks url or callback_url
	ErrMissingCallbackURL = errors.New("missing url or callback_url")
)
