package job

// Status is the externally visible outcome marker of a result payload
type Status string

const (
	StatusQueued  Status = "queued"
	StatusOK      Status = "ok"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ResultTypeAudio tags callback payloads produced by this service
const ResultTypeAudio = "audio"

// Result is the terminal payload of a job. It is written either into the
// HTTP response (sync) or into the callback body (async).
type Result struct {
	Status      Status `json:"status"`
	JobID       string `json:"job_id,omitempty"`
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Accepted is the immediate reply for a queued async job
func Accepted(j *Job) Result {
	return Result{Status: StatusQueued, JobID: j.ID}
}

// Success builds the result for a job whose audio was uploaded
func Success(j *Job, title, downloadURL string, fileSize int64) Result {
	return Result{
		Status:      StatusOK,
		JobID:       j.ID,
		Type:        ResultTypeAudio,
		Title:       title,
		URL:         j.SourceURL,
		DownloadURL: downloadURL,
		FileSize:    fileSize,
	}
}

// Failure builds the result for a failed job
func Failure(j *Job, err error) Result {
	r := Result{Status: StatusError, Message: "unknown error"}
	if err != nil {
		r.Message = err.Error()
	}
	if j != nil {
		r.JobID = j.ID
	}
	return r
}

// Rejected builds an error payload for a request that never became a job
func Rejected(err error) Result {
	return Failure(nil, err)
}

// OK reports whether the result describes a successful job
func (r Result) OK() bool {
	return r.Status == StatusOK || r.Status == StatusSuccess
}

// Synchronous returns the form of the result served directly to an HTTP
// caller: success is reported as "success" and job bookkeeping is hidden.
func (r Result) Synchronous() Result {
	r.JobID = ""
	r.Type = ""
	if r.Status == StatusOK {
		r.Status = StatusSuccess
	}
	return r
}
