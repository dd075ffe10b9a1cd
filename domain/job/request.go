package job

import "strings"

// Request is the inbound body of POST /download-audio
type Request struct {
	URL         string `json:"url"`
	CallbackURL string `json:"callback_url"`
}

// ValidateAsync checks the fields required to queue a background job
func (r Request) ValidateAsync() error {
	if strings.TrimSpace(r.URL) == "" || strings.TrimSpace(r.CallbackURL) == "" {
		return ErrMissingCallbackURL
	}
	return nil
}

// ValidateSync checks the fields required to run a job inline
func (r Request) ValidateSync() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrMissingURL
	}
	return nil
}
