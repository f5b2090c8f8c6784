// internal/intent/classifier_test.go
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Generator
// ==========================

// fakeGenerator returns a canned response or error and counts calls.
type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeGenerator) GenerateFromAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	return "", errors.New("not used in classifier tests")
}

func newTestClassifier(t *testing.T, gen *fakeGenerator) *Classifier {
	t.Helper()
	return New(gen, nil, time.Minute, logger.NewTestLogger(t))
}

// ==========================
// AI Path Tests
// ==========================

func TestClassify_AIPath(t *testing.T) {
	tests := []struct {
		name               string
		response           string
		expectedIntent     models.Intent
		expectedEntity     string
		expectedAssignedTo string
		expectedConfidence float64
	}{
		{
			name:               "plain json response",
			response:           `{"intent": "CREATE_TODO", "entity": "buy milk", "confidence": 0.95}`,
			expectedIntent:     models.IntentCreateTodo,
			expectedEntity:     "buy milk",
			expectedConfidence: 0.95,
		},
		{
			name:               "fenced json response",
			response:           "```json\n{\"intent\": \"ASSIGN_TASK\", \"entity\": \"api testing\", \"assignedTo\": \"arjun\"}\n```",
			expectedIntent:     models.IntentAssignTask,
			expectedEntity:     "api testing",
			expectedAssignedTo: "arjun",
			expectedConfidence: 0.8,
		},
		{
			name:               "bare fences",
			response:           "```\n{\"intent\": \"SHOW_TODOS\"}\n```",
			expectedIntent:     models.IntentShowTodos,
			expectedConfidence: 0.8,
		},
		{
			name:               "null optional fields",
			response:           `{"intent": "SHOW_NOTES", "entity": null, "assignedTo": null, "confidence": null}`,
			expectedIntent:     models.IntentShowNotes,
			expectedConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response}
			c := newTestClassifier(t, gen)

			result := c.Classify(context.Background(), "whatever was said", "u1")

			assert.Equal(t, tt.expectedIntent, result.Intent)
			assert.Equal(t, tt.expectedEntity, result.Entity)
			assert.Equal(t, tt.expectedAssignedTo, result.AssignedTo)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
			assert.Equal(t, models.SourceAI, result.Source)
			assert.True(t, result.AIGenerated())
			assert.Equal(t, 1, gen.calls)
		})
	}
}

// ==========================
// Fallback Ladder Tests
// ==========================

func TestClassify_FallbackLadder(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{
			name: "backend error",
			err:  errors.New("connection refused"),
		},
		{
			name:     "non-json response",
			response: "I think the user wants to create a todo.",
		},
		{
			name:     "intent outside closed set",
			response: `{"intent": "MAKE_COFFEE", "entity": "espresso"}`,
		},
		{
			name:     "missing intent field",
			response: `{"entity": "buy milk"}`,
		},
		{
			name:     "confidence out of range",
			response: `{"intent": "CREATE_TODO", "entity": "buy milk", "confidence": 3.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response, err: tt.err}
			c := newTestClassifier(t, gen)

			result := c.Classify(context.Background(), "Create a todo to buy milk", "u1")

			assert.Equal(t, models.SourceRuleBased, result.Source)
			assert.False(t, result.AIGenerated())
			assert.Equal(t, models.IntentCreateTodo, result.Intent)
			assert.True(t, result.Intent.Valid())
		})
	}
}

func TestClassify_NilGeneratorIsRuleBasedMode(t *testing.T) {
	c := New(nil, nil, time.Minute, logger.NewNoOpLogger())

	result := c.Classify(context.Background(), "Show my todos", "u1")

	assert.Equal(t, models.IntentShowTodos, result.Intent)
	assert.Equal(t, models.SourceRuleBased, result.Source)
}

func TestClassify_ClosedSetProperty(t *testing.T) {
	responses := []string{
		`{"intent": "CREATE_TODO"}`,
		`{"intent": "garbage"}`,
		"not json at all",
		"",
		"```json\nnull\n```",
	}

	for _, response := range responses {
		gen := &fakeGenerator{response: response}
		c := newTestClassifier(t, gen)

		result := c.Classify(context.Background(), "some transcript", "u1")
		assert.True(t, result.Intent.Valid(), "response %q produced intent outside the closed set", response)
	}
}

// ==========================
// Cache Tests
// ==========================

func TestClassify_CacheHitSkipsBackend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cached := models.IntentResult{
		Intent:     models.IntentCreateTodo,
		Entity:     "buy milk",
		Confidence: 0.95,
		Source:     models.SourceAI,
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectGet(cacheKey("Create a todo to buy milk")).SetVal(string(payload))

	gen := &fakeGenerator{response: `{"intent": "SHOW_TODOS"}`}
	c := New(gen, db, time.Minute, logger.NewNoOpLogger())

	result := c.Classify(context.Background(), "Create a todo to buy milk", "u1")

	assert.Equal(t, models.IntentCreateTodo, result.Intent)
	assert.Equal(t, "buy milk", result.Entity)
	assert.Equal(t, 0, gen.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify_CacheMissStoresAIResult(t *testing.T) {
	db, mock := redismock.NewClientMock()
	key := cacheKey("Create a todo to buy milk")

	expected := models.IntentResult{
		Intent:     models.IntentCreateTodo,
		Entity:     "buy milk",
		Confidence: 0.95,
		Source:     models.SourceAI,
	}
	payload, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	gen := &fakeGenerator{response: `{"intent": "CREATE_TODO", "entity": "buy milk", "confidence": 0.95}`}
	c := New(gen, db, time.Minute, logger.NewNoOpLogger())

	result := c.Classify(context.Background(), "Create a todo to buy milk", "u1")

	assert.Equal(t, expected, result)
	assert.Equal(t, 1, gen.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKey_NormalizesCaseAndSpace(t *testing.T) {
	assert.Equal(t, cacheKey("Create a TODO"), cacheKey("  create a todo  "))
	assert.NotEqual(t, cacheKey("create a todo"), cacheKey("create a note"))
}
