// Package genai wraps the generative backends used for intent classification
// and speech-to-text. Two backends are supported: the Gemini REST API and an
// OpenAI-compatible chat endpoint; the model name in configuration selects
// which one is constructed.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-assistant/internal/common/config"
)

// ErrOverloaded marks a transient backend overload; callers may retry.
// Any other backend failure is terminal for the current call.
var ErrOverloaded = errors.New("MODEL_OVERLOADED")

// Generator produces text from a prompt, optionally grounded on an inline
// audio payload.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error)
}

// New selects a backend from the configured model name: gemini-* models use
// the Gemini REST API, anything else goes through the OpenAI client.
func New(cfg config.GenAIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai: api key not configured")
	}
	if strings.HasPrefix(cfg.AIModel, "gemini") {
		return NewGeminiClient(cfg), nil
	}
	return NewOpenAIClient(cfg), nil
}

// IsOverloaded reports whether err is a transient overload signal.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOverloaded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "unavailable")
}

// RetryWithBackoff runs fn up to maxRetries times, doubling the delay after
// each overloaded attempt. Non-overload errors abort immediately. onRetry,
// when non-nil, is invoked before each sleep.
func RetryWithBackoff(ctx context.Context, fn func() (string, error), maxRetries int, initialDelay time.Duration, onRetry func()) (string, error) {
	delay := initialDelay
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !IsOverloaded(err) {
			return "", err
		}
		lastErr = err

		if attempt < maxRetries-1 {
			if onRetry != nil {
				onRetry()
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
		}
	}

	return "", fmt.Errorf("%w: %v", ErrOverloaded, lastErr)
}
