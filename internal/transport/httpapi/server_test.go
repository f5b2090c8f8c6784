// internal/transport/httpapi/server_test.go
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voice-assistant/internal/common/config"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/dispatch"
	"voice-assistant/internal/executors"
	"voice-assistant/internal/models"
	"voice-assistant/internal/store"
	"voice-assistant/internal/transcribe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fixture
// ==========================

// ruleOnlyClassifier routes everything through the deterministic path so the
// transport tests need no AI backend.
type ruleOnlyClassifier struct{}

func (ruleOnlyClassifier) Classify(ctx context.Context, text, callerID string) models.IntentResult {
	switch {
	case strings.Contains(strings.ToLower(text), "todo"):
		if strings.HasPrefix(strings.ToLower(text), "create") {
			return models.IntentResult{Intent: models.IntentCreateTodo, Entity: "buy milk", Confidence: 0.7, Source: models.SourceRuleBased}
		}
		return models.IntentResult{Intent: models.IntentShowTodos, Confidence: 0.7, Source: models.SourceRuleBased}
	default:
		return models.IntentResult{Intent: models.IntentUnknown, Entity: text, Confidence: 0.3, Source: models.SourceRuleBased}
	}
}

// echoGenerator transcribes any audio payload to a fixed utterance.
type echoGenerator struct{ transcript string }

func (e echoGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func (e echoGenerator) GenerateFromAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	return e.transcript, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.NewTestLogger(t)
	stores := store.NewMemoryStores().Bundle()

	dispatcher := dispatch.New(
		ruleOnlyClassifier{},
		executors.NewTodoExecutor(stores.Todos, log),
		executors.NewNoteExecutor(stores.Notes, log),
		executors.NewAssignedExecutor(stores.Assigned, nil, log),
		executors.NewBlockedExecutor(stores.Blocked, log),
		nil,
		log,
	)
	transcriber := transcribe.New(
		echoGenerator{transcript: "show my todos"},
		config.TranscriptionConfig{MaxRetries: 1, InitialDelayMs: 1},
		log,
	)

	server := NewServer(dispatcher, transcriber, 0, 1<<20, log)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeEnvelope(t *testing.T, resp *http.Response) dispatch.VoiceResponse {
	t.Helper()
	defer resp.Body.Close()
	var envelope dispatch.VoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

// ==========================
// JSON Endpoint Tests
// ==========================

func TestHandleVoice_Success(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": "create a todo to buy milk"}`)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/voice", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Id", "u1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "CREATE_TODO", envelope.Intent)
	assert.Equal(t, `Created todo: "buy milk"`, envelope.Response)
}

func TestHandleVoice_CallerFromBodyField(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": "show my todos", "callerId": "u1"}`)
	resp, err := http.Post(ts.URL+"/api/voice", "application/json", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "SHOW_TODOS", envelope.Intent)
}

func TestHandleVoice_MissingCallerIs400(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": "show my todos"}`)
	resp, err := http.Post(ts.URL+"/api/voice", "application/json", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.False(t, envelope.Success)
	assert.Equal(t, "MISSING_CALLER", envelope.Error)
}

func TestHandleVoice_DomainFailureIsStill200(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"transcript": "gibberish", "callerId": "u1"}`)
	resp, err := http.Post(ts.URL+"/api/voice", "application/json", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "UNKNOWN", envelope.Intent)
}

func TestHandleVoice_RejectsNonPost(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/voice")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// ==========================
// Audio Endpoint Tests
// ==========================

func TestHandleVoiceAudio_TranscribesThenDispatches(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "clip.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-audio"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/voice/audio", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Caller-Id", "u1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "SHOW_TODOS", envelope.Intent)
	assert.Equal(t, "show my todos", envelope.Transcription)
}

func TestHandleVoiceAudio_MissingCallerIs400(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/voice/audio", "multipart/form-data", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "MISSING_CALLER", envelope.Error)
}

// ==========================
// Infrastructure Endpoints
// ==========================

func TestHealthAndMetricsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
