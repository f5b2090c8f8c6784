// Package httpapi is the thin HTTP adapter over the dispatcher. Domain-level
// failures (no match, validation prompts, transcription problems) still
// return HTTP 200 with a success:false envelope; only a missing caller
// identity (400) and storage failures (500) change the status code.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/dispatch"
	"voice-assistant/internal/transcribe"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	callerHeader         = "X-Caller-Id"
	defaultMaxAudioBytes = 10 << 20
)

// Server wires the dispatcher and transcriber to HTTP routes.
type Server struct {
	dispatcher    *dispatch.Dispatcher
	transcriber   *transcribe.Transcriber
	maxAudioBytes int64
	log           logger.Logger
	httpServer    *http.Server
}

func NewServer(dispatcher *dispatch.Dispatcher, transcriber *transcribe.Transcriber, port, maxAudioBytes int, log logger.Logger) *Server {
	if maxAudioBytes <= 0 {
		maxAudioBytes = defaultMaxAudioBytes
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		dispatcher:    dispatcher,
		transcriber:   transcriber,
		maxAudioBytes: int64(maxAudioBytes),
		log:           log,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/voice", s.handleVoice)
	mux.HandleFunc("/api/voice/audio", s.handleVoiceAudio)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
	CallerID   string `json:"callerId"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dispatch.VoiceResponse{
			Success: false,
			Error:   "INVALID_REQUEST",
			Message: "Request body must be JSON with a transcript field",
		})
		return
	}

	callerID := callerIdentity(r, req.CallerID)
	resp := s.dispatcher.Handle(r.Context(), req.Transcript, callerID)
	writeJSON(w, statusFor(resp), resp)
}

func (s *Server) handleVoiceAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	callerID := callerIdentity(r, "")
	if callerID == "" {
		writeJSON(w, http.StatusBadRequest, dispatch.VoiceResponse{
			Success: false,
			Error:   string(stderrors.ErrCodeMissingCaller),
			Message: "Caller identity is required",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dispatch.VoiceResponse{
			Success: false,
			Error:   "INVALID_REQUEST",
			Message: "Multipart field \"audio\" is required",
		})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dispatch.VoiceResponse{
			Success: false,
			Error:   "INVALID_REQUEST",
			Message: "Failed to read audio payload",
		})
		return
	}

	transcript, err := s.transcriber.TranscribeBuffer(r.Context(), audio, transcribe.MimeTypeForPath(header.Filename))
	if err != nil {
		resp := dispatch.VoiceResponse{
			Success: false,
			Message: err.Error(),
		}
		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) {
			resp.Error = string(stdErr.Code)
			resp.Message = stdErr.Message
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := s.dispatcher.Handle(r.Context(), transcript, callerID)
	writeJSON(w, statusFor(resp), resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// callerIdentity prefers the header, then the body field.
func callerIdentity(r *http.Request, bodyCallerID string) string {
	if caller := strings.TrimSpace(r.Header.Get(callerHeader)); caller != "" {
		return caller
	}
	return strings.TrimSpace(bodyCallerID)
}

// statusFor maps an envelope to its HTTP status. Domain failures stay 200.
func statusFor(resp dispatch.VoiceResponse) int {
	switch resp.Error {
	case string(stderrors.ErrCodeMissingCaller):
		return http.StatusBadRequest
	case string(stderrors.ErrCodeStoreQueryFailed), string(stderrors.ErrCodeStoreInsertFailed):
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
