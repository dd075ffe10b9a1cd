package job

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appdist "audio-bridge/application/distribution"
	"audio-bridge/domain/distribution"
	"audio-bridge/domain/job"
	"audio-bridge/domain/media"
	"audio-bridge/infrastructure/filesystem"
)

// --- Mock implementations for testing ---

// mockExtractor implements media.AudioExtractor for testing
type mockExtractor struct {
	mediaID    string
	title      string
	writeFile  bool // create the mp3 in the request's work dir
	failError  error
	panicValue any
	requests   []*media.ExtractionRequest
}

func (m *mockExtractor) Extract(ctx context.Context, req *media.ExtractionRequest) (*media.ExtractionResult, error) {
	m.requests = append(m.requests, req)
	if m.panicValue != nil {
		panic(m.panicValue)
	}
	if m.failError != nil {
		return nil, m.failError
	}

	path := filepath.Join(req.WorkDir, m.mediaID+".mp3")
	if m.writeFile {
		if err := os.WriteFile(path, []byte("ID3-fake-audio"), 0644); err != nil {
			return nil, err
		}
	}

	return &media.ExtractionResult{
		MediaID:        m.mediaID,
		Title:          m.title,
		SourceExt:      "webm",
		LocalAudioPath: path,
	}, nil
}

// mockStore implements distribution.ObjectStore for testing
type mockStore struct {
	uploads   []distribution.UploadRequest
	failError error
	seen      map[string]bool // local paths that existed at upload time
}

func (m *mockStore) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.uploads = append(m.uploads, req)
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	_, statErr := os.Stat(req.LocalPath)
	m.seen[req.LocalPath] = statErr == nil

	if m.failError != nil {
		return nil, m.failError
	}
	return &distribution.UploadResult{
		Bucket:    req.Bucket,
		Key:       req.Key,
		PublicURL: distribution.PublicURL("", req.Bucket, req.Key),
		Size:      14,
	}, nil
}

func newTestRunner(t *testing.T, ext *mockExtractor, store *mockStore, bucket string) (*Runner, string, *bytes.Buffer) {
	t.Helper()
	workDir := t.TempDir()
	logs := &bytes.Buffer{}
	uploader := appdist.NewUploadService(store, bucket, distribution.DefaultKeyPrefix)
	r := NewRunner(ext, uploader, filesystem.NewChecker(), workDir, WithLogger(log.New(logs, "", 0)))
	return r, workDir, logs
}

func newJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.New("https://example.com/clip", "")
	if err != nil {
		t.Fatalf("failed to create job: %v", err)
	}
	return j
}

func assertCleanWorkDir(t *testing.T, workDir string) {
	t.Helper()
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("failed to read work dir: %v", err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected empty work dir after job, found %v", names)
	}
}

// --- Tests ---

func TestRunner_Success(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", title: "Demo Clip", writeFile: true}
	store := &mockStore{}
	r, workDir, logs := newTestRunner(t, ext, store, "mybucket")
	j := newJob(t)

	result := r.Run(context.Background(), j)

	if result.Status != job.StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Message)
	}
	if result.Title != "Demo Clip" {
		t.Errorf("title = %q", result.Title)
	}
	if result.URL != "https://example.com/clip" {
		t.Errorf("url = %q", result.URL)
	}
	want := "https://storage.googleapis.com/mybucket/audio/abc123.mp3"
	if result.DownloadURL != want {
		t.Errorf("download url = %q, want %q", result.DownloadURL, want)
	}
	if result.FileSize != 14 {
		t.Errorf("file size = %d, want 14", result.FileSize)
	}
	if result.JobID != j.ID {
		t.Errorf("job id = %q, want %q", result.JobID, j.ID)
	}
	if j.State != job.StateSucceeded {
		t.Errorf("state = %s, want succeeded", j.State)
	}

	if len(ext.requests) != 1 || ext.requests[0].WorkDir != filepath.Join(workDir, j.ID) {
		t.Errorf("expected extraction into per-job dir, got %+v", ext.requests)
	}
	if len(store.uploads) != 1 || !store.seen[store.uploads[0].LocalPath] {
		t.Error("expected the audio file to exist when uploaded")
	}

	assertCleanWorkDir(t, workDir)

	if !strings.Contains(logs.String(), "[JOB "+j.ID+"]") {
		t.Errorf("expected job-prefixed logs, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "transcoded from webm") {
		t.Errorf("expected source container in upload log, got %q", logs.String())
	}
}

func TestRunner_ExtractionFailure(t *testing.T) {
	ext := &mockExtractor{failError: errors.New("yt-dlp failed: ERROR: Unsupported URL: https://example.com/clip")}
	store := &mockStore{}
	r, workDir, _ := newTestRunner(t, ext, store, "mybucket")
	j := newJob(t)

	result := r.Run(context.Background(), j)

	if result.Status != job.StatusError {
		t.Fatalf("expected error, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "Unsupported URL") {
		t.Errorf("expected engine message to pass through, got %q", result.Message)
	}
	if len(store.uploads) != 0 {
		t.Error("upload must not be attempted after extraction failure")
	}
	if j.State != job.StateFailed {
		t.Errorf("state = %s, want failed", j.State)
	}
	assertCleanWorkDir(t, workDir)
}

func TestRunner_OutputMissing(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", title: "Demo Clip", writeFile: false}
	store := &mockStore{}
	r, workDir, _ := newTestRunner(t, ext, store, "mybucket")

	result := r.Run(context.Background(), newJob(t))

	if result.Status != job.StatusError {
		t.Fatalf("expected error, got %s", result.Status)
	}
	if result.Message != media.ErrOutputNotFound.Error() {
		t.Errorf("message = %q, want %q", result.Message, media.ErrOutputNotFound.Error())
	}
	if len(store.uploads) != 0 {
		t.Error("upload must not be attempted when output is missing")
	}
	assertCleanWorkDir(t, workDir)
}

func TestRunner_BucketNotConfigured(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", title: "Demo Clip", writeFile: true}
	store := &mockStore{}
	r, workDir, _ := newTestRunner(t, ext, store, "")

	result := r.Run(context.Background(), newJob(t))

	if result.Status != job.StatusError {
		t.Fatalf("expected error, got %s", result.Status)
	}
	if result.Message != distribution.ErrBucketNotConfigured.Error() {
		t.Errorf("message = %q", result.Message)
	}
	if len(store.uploads) != 0 {
		t.Errorf("expected no upload attempt, got %d", len(store.uploads))
	}
	assertCleanWorkDir(t, workDir)
}

func TestRunner_UploadFailure(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", title: "Demo Clip", writeFile: true}
	store := &mockStore{failError: errors.New("googleapi: Error 403: forbidden")}
	r, workDir, _ := newTestRunner(t, ext, store, "mybucket")

	result := r.Run(context.Background(), newJob(t))

	if result.Status != job.StatusError {
		t.Fatalf("expected error, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "403") {
		t.Errorf("expected upload error to pass through, got %q", result.Message)
	}
	if len(store.uploads) != 1 {
		t.Errorf("expected exactly one upload attempt, got %d", len(store.uploads))
	}
	assertCleanWorkDir(t, workDir)
}

func TestRunner_PanicBecomesErrorResult(t *testing.T) {
	ext := &mockExtractor{panicValue: "nil map write"}
	r, workDir, logs := newTestRunner(t, ext, &mockStore{}, "mybucket")
	j := newJob(t)

	result := r.Run(context.Background(), j)

	if result.Status != job.StatusError {
		t.Fatalf("expected error, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "nil map write") {
		t.Errorf("message = %q", result.Message)
	}
	if j.State != job.StateFailed {
		t.Errorf("state = %s, want failed", j.State)
	}
	if !strings.Contains(logs.String(), "recovered from panic") {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
	assertCleanWorkDir(t, workDir)
}

func TestRunner_SameURLProducesIndependentJobs(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", title: "Demo Clip", writeFile: true}
	store := &mockStore{}
	r, workDir, _ := newTestRunner(t, ext, store, "mybucket")

	first := newJob(t)
	second := newJob(t)
	if first.ID == second.ID {
		t.Fatal("expected distinct job ids")
	}

	r1 := r.Run(context.Background(), first)
	r2 := r.Run(context.Background(), second)

	if !r1.OK() || !r2.OK() {
		t.Fatalf("expected both jobs to succeed: %+v %+v", r1, r2)
	}
	if r1.JobID == r2.JobID {
		t.Error("results share a job id")
	}
	if ext.requests[0].WorkDir == ext.requests[1].WorkDir {
		t.Error("jobs shared a work directory")
	}
	assertCleanWorkDir(t, workDir)
}

func TestNewRunner_AudioQuality(t *testing.T) {
	ext := &mockExtractor{mediaID: "abc123", writeFile: true}
	uploader := appdist.NewUploadService(&mockStore{}, "mybucket", "audio")

	r := NewRunner(ext, uploader, filesystem.NewChecker(), t.TempDir(), WithAudioQuality("128"))
	r.Run(context.Background(), newJob(t))

	if len(ext.requests) != 1 || ext.requests[0].AudioQuality != "128" {
		t.Errorf("expected quality 128, got %+v", ext.requests)
	}
}
