package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"audio-bridge/domain/job"
	"audio-bridge/infrastructure/config"
)

// maxBodyBytes bounds the request body of POST /download-audio
const maxBodyBytes = 1 << 20

// ErrInvalidBody is reported for bodies that are not a JSON object
var ErrInvalidBody = errors.New("invalid JSON body")

// Dispatcher is the application entry point the handlers delegate to
type Dispatcher interface {
	Submit(ctx context.Context, req job.Request) (job.Result, error)
	RunSync(ctx context.Context, req job.Request) (job.Result, error)
}

// Handler serves the HTTP surface for one dispatch mode
type Handler struct {
	dispatcher Dispatcher
	mode       string
	logger     *log.Logger
}

// NewHandler creates a handler for the given mode (config.ModeAsync or config.ModeSync)
func NewHandler(dispatcher Dispatcher, mode string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{
		dispatcher: dispatcher,
		mode:       mode,
		logger:     logger,
	}
}

// Routes returns the router for the configured mode
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	if h.mode == config.ModeSync {
		mux.HandleFunc("POST /download-audio", h.handleSync)
		mux.HandleFunc("GET /{$}", h.handleRoot)
	} else {
		mux.HandleFunc("POST /download-audio", h.handleAsync)
	}

	return mux
}

func (h *Handler) handleAsync(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, job.Rejected(err))
		return
	}

	reply, err := h.dispatcher.Submit(r.Context(), req)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, reply)
		return
	}

	h.writeJSON(w, http.StatusAccepted, reply)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, job.Rejected(err))
		return
	}

	result, err := h.dispatcher.RunSync(r.Context(), req)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, result)
		return
	}

	status := http.StatusOK
	if !result.OK() {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, result)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "audio-bridge is running")
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": h.mode})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (job.Request, error) {
	var req job.Request

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return req, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	return req, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("failed to write response: %v", err)
	}
}
