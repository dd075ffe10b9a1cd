package notification

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"audio-bridge/domain/job"
	"audio-bridge/domain/notification"
)

// mockNotifier implements notification.Notifier for testing
type mockNotifier struct {
	callbacks []*notification.Callback
	err       error
}

func (m *mockNotifier) Notify(ctx context.Context, cb *notification.Callback) error {
	m.callbacks = append(m.callbacks, cb)
	return m.err
}

func TestService_Deliver(t *testing.T) {
	j := &job.Job{ID: "job-1", SourceURL: "https://example.com/clip", CallbackURL: "https://hook.example/cb"}
	result := job.Success(j, "Demo Clip", "https://storage.googleapis.com/b/audio/abc123.mp3", 42)

	notifier := &mockNotifier{}
	var logs bytes.Buffer
	svc := NewService(notifier, log.New(&logs, "", 0))

	if !svc.Deliver(context.Background(), j, result) {
		t.Fatal("Deliver() = false, want true")
	}

	if len(notifier.callbacks) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(notifier.callbacks))
	}
	cb := notifier.callbacks[0]
	if cb.URL != "https://hook.example/cb" {
		t.Errorf("url = %q", cb.URL)
	}
	if cb.Result.JobID != "job-1" {
		t.Errorf("job id = %q", cb.Result.JobID)
	}
	if !strings.Contains(logs.String(), "[JOB job-1] callback delivered") {
		t.Errorf("unexpected log output: %q", logs.String())
	}
}

func TestService_DeliverFailureIsDropped(t *testing.T) {
	j := &job.Job{ID: "job-2", CallbackURL: "https://unreachable.example/cb"}
	notifier := &mockNotifier{err: errors.New("connection refused")}
	var logs bytes.Buffer
	svc := NewService(notifier, log.New(&logs, "", 0))

	if svc.Deliver(context.Background(), j, job.Failure(j, errors.New("boom"))) {
		t.Fatal("Deliver() = true, want false")
	}

	if len(notifier.callbacks) != 1 {
		t.Errorf("expected a single attempt, got %d", len(notifier.callbacks))
	}
	if !strings.Contains(logs.String(), "connection refused") {
		t.Errorf("expected failure to be logged, got %q", logs.String())
	}
}

func TestNewService_NilLogger(t *testing.T) {
	svc := NewService(&mockNotifier{}, nil)
	j := &job.Job{ID: "job-3", CallbackURL: "https://hook.example/cb"}

	if !svc.Deliver(context.Background(), j, job.Accepted(j)) {
		t.Error("Deliver() = false with nil logger")
	}
}
