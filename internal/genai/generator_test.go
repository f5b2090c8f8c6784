// internal/genai/generator_test.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"voice-assistant/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Backend Selection Tests
// ==========================

func TestNew_BackendSelection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.GenAIConfig
		expectError bool
		expectType  string
	}{
		{
			name:       "gemini model selects gemini backend",
			cfg:        config.GenAIConfig{AIModel: "gemini-2.0-flash-lite", APIKey: "key"},
			expectType: "*genai.GeminiClient",
		},
		{
			name:       "gpt model selects openai backend",
			cfg:        config.GenAIConfig{AIModel: "gpt-4o-mini", APIKey: "key"},
			expectType: "*genai.OpenAIClient",
		},
		{
			name:        "missing api key is an error",
			cfg:         config.GenAIConfig{AIModel: "gemini-2.0-flash-lite"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectType, fmt.Sprintf("%T", gen))
		})
	}
}

// ==========================
// Overload Detection Tests
// ==========================

func TestIsOverloaded(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "sentinel", err: ErrOverloaded, expected: true},
		{name: "wrapped sentinel", err: fmt.Errorf("call failed: %w", ErrOverloaded), expected: true},
		{name: "503 in message", err: errors.New("server returned 503"), expected: true},
		{name: "overloaded in message", err: errors.New("The model is overloaded"), expected: true},
		{name: "unavailable in message", err: errors.New("service Unavailable"), expected: true},
		{name: "ordinary error", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOverloaded(tt.err))
		})
	}
}

// ==========================
// Retry Tests
// ==========================

func TestRetryWithBackoff_SucceedsAfterOverload(t *testing.T) {
	calls := 0
	retries := 0

	out, err := RetryWithBackoff(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", ErrOverloaded
		}
		return "done", nil
	}, 3, time.Millisecond, func() { retries++ })

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryWithBackoff_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0

	_, err := RetryWithBackoff(context.Background(), func() (string, error) {
		calls++
		return "", ErrOverloaded
	}, 3, time.Millisecond, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverloaded))
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_NonOverloadAbortsImmediately(t *testing.T) {
	calls := 0
	terminal := errors.New("bad request")

	_, err := RetryWithBackoff(context.Background(), func() (string, error) {
		calls++
		return "", terminal
	}, 3, time.Millisecond, nil)

	assert.Equal(t, terminal, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryWithBackoff(ctx, func() (string, error) {
		return "", ErrOverloaded
	}, 3, time.Hour, nil)

	assert.Equal(t, context.Canceled, err)
}
