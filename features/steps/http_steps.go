//go:build integration

package steps

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"audio-bridge/application/dispatch"
	appnotif "audio-bridge/application/notification"
	"audio-bridge/infrastructure/httpserver"
	"audio-bridge/infrastructure/webhook"

	"github.com/cucumber/godog"
)

type httpState struct {
	status    int
	body      map[string]any
	jobIDs    []string
	receiver  *httptest.Server
	callbacks chan map[string]any
	callback  map[string]any
}

func (h *httpState) close() {
	if h.receiver != nil {
		h.receiver.Close()
	}
}

func initializeHTTPSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the service runs in "([^"]*)" mode$`, func(mode string) error {
		SharedPipelineContext.mode = mode
		return nil
	})
	ctx.Step(`^a callback receiver$`, aCallbackReceiver)
	ctx.Step(`^I post:$`, func(body *godog.DocString) error {
		return post(body.Content)
	})
	ctx.Step(`^I post with the callback:$`, func(body *godog.DocString) error {
		return post(withCallback(body.Content))
	})
	ctx.Step(`^I post with the callback twice:$`, func(body *godog.DocString) error {
		if err := post(withCallback(body.Content)); err != nil {
			return err
		}
		return post(withCallback(body.Content))
	})
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, func(field, expected string) error {
		return fieldShouldBe(SharedPipelineContext.http.body, field, expected)
	})
	ctx.Step(`^the response should have a positive "([^"]*)"$`, theResponseShouldHaveAPositive)
	ctx.Step(`^the callback should receive the same job_id$`, theCallbackShouldReceiveTheSameJobID)
	ctx.Step(`^the callback field "([^"]*)" should be "([^"]*)"$`, func(field, expected string) error {
		return fieldShouldBe(SharedPipelineContext.http.callback, field, expected)
	})
	ctx.Step(`^the two job ids should differ$`, theTwoJobIDsShouldDiffer)
	ctx.Step(`^the callback should be called (\d+) times$`, theCallbackShouldBeCalledTimes)
}

func aCallbackReceiver() error {
	h := &SharedPipelineContext.http
	h.callbacks = make(chan map[string]any, 8)
	h.receiver = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.callbacks <- body
		w.WriteHeader(http.StatusOK)
	}))
	return nil
}

func withCallback(body string) string {
	h := &SharedPipelineContext.http
	url := "http://127.0.0.1:1/unreachable"
	if h.receiver != nil {
		url = h.receiver.URL + "/cb"
	}
	trimmed := strings.TrimSuffix(strings.TrimSpace(body), "}")
	return trimmed + `, "callback_url": "` + url + `"}`
}

func post(body string) error {
	p := SharedPipelineContext
	runner, err := p.runner()
	if err != nil {
		return err
	}

	deliverer := appnotif.NewService(webhook.NewClient(webhook.WithTimeout(2*time.Second)), nil)
	handler := httpserver.NewHandler(dispatch.NewDispatcher(runner, deliverer), p.mode, nil).Routes()

	req := httptest.NewRequest(http.MethodPost, "/download-audio", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	p.http.status = rec.Code
	p.http.body = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &p.http.body); err != nil {
		return fmt.Errorf("response is not JSON: %w (%q)", err, rec.Body.String())
	}
	if id, ok := p.http.body["job_id"].(string); ok {
		p.http.jobIDs = append(p.http.jobIDs, id)
	}
	return nil
}

func theResponseStatusShouldBe(expected int) error {
	if got := SharedPipelineContext.http.status; got != expected {
		return fmt.Errorf("expected status %d, got %d (%v)", expected, got, SharedPipelineContext.http.body)
	}
	return nil
}

func fieldShouldBe(body map[string]any, field, expected string) error {
	if body == nil {
		return fmt.Errorf("no body captured")
	}
	got, _ := body[field].(string)
	if got != expected {
		return fmt.Errorf("expected %s %q, got %v", field, expected, body[field])
	}
	return nil
}

func theResponseShouldHaveAPositive(field string) error {
	n, ok := SharedPipelineContext.http.body[field].(float64)
	if !ok || n <= 0 {
		return fmt.Errorf("expected positive %s, got %v", field, SharedPipelineContext.http.body[field])
	}
	return nil
}

func waitForCallback() (map[string]any, error) {
	h := &SharedPipelineContext.http
	if h.callbacks == nil {
		return nil, fmt.Errorf("no callback receiver configured")
	}
	select {
	case body := <-h.callbacks:
		return body, nil
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("timed out waiting for callback")
	}
}

func theCallbackShouldReceiveTheSameJobID() error {
	body, err := waitForCallback()
	if err != nil {
		return err
	}
	h := &SharedPipelineContext.http
	h.callback = body

	queued, _ := h.body["job_id"].(string)
	if queued == "" {
		return fmt.Errorf("queued reply had no job_id")
	}
	if body["job_id"] != queued {
		return fmt.Errorf("callback job_id %v does not match queued %s", body["job_id"], queued)
	}
	return nil
}

func theTwoJobIDsShouldDiffer() error {
	ids := SharedPipelineContext.http.jobIDs
	if len(ids) != 2 {
		return fmt.Errorf("expected 2 job ids, got %v", ids)
	}
	if ids[0] == ids[1] {
		return fmt.Errorf("job ids are equal: %s", ids[0])
	}
	return nil
}

func theCallbackShouldBeCalledTimes(n int) error {
	seen := make(map[any]bool)
	for i := 0; i < n; i++ {
		body, err := waitForCallback()
		if err != nil {
			return fmt.Errorf("callback %d: %w", i+1, err)
		}
		seen[body["job_id"]] = true
	}
	if len(seen) != n {
		return fmt.Errorf("expected %d distinct job ids in callbacks, got %d", n, len(seen))
	}
	return nil
}
