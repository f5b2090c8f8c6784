// Package transcribe adapts the generative backend into a speech-to-text
// call. It accepts either a file path or an in-memory buffer, detects the
// audio MIME type by extension, and applies the overload-only retry contract
// before giving up.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voice-assistant/internal/common/config"
	stderrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/metrics"
	"voice-assistant/internal/genai"
)

const transcriptionPrompt = "Generate a transcript of the speech. Return only the spoken words, with no commentary, labels or formatting."

const defaultMimeType = "audio/webm"

var mimeByExtension = map[string]string{
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".mp3":  "audio/mp3",
	".webm": "audio/webm",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
}

// Transcriber turns recorded audio into text via the configured generative
// backend.
type Transcriber struct {
	generator    genai.Generator
	maxRetries   int
	initialDelay time.Duration
	log          logger.Logger
}

func New(generator genai.Generator, cfg config.TranscriptionConfig, log logger.Logger) *Transcriber {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	initialDelay := time.Duration(cfg.InitialDelayMs) * time.Millisecond
	if initialDelay <= 0 {
		initialDelay = 2 * time.Second
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Transcriber{
		generator:    generator,
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		log:          log,
	}
}

// Transcribe reads the audio file at path and returns its transcript. The
// MIME type is inferred from the file extension.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", stderrors.NewTranscriptionFailedError(fmt.Errorf("read audio file: %w", err))
	}
	return t.TranscribeBuffer(ctx, data, MimeTypeForPath(path))
}

// TranscribeBuffer transcribes an in-memory audio payload. An empty mimeType
// falls back to audio/webm. An empty transcript from the backend is reported
// as a distinct error so callers can tell silence from backend failure.
func (t *Transcriber) TranscribeBuffer(ctx context.Context, data []byte, mimeType string) (string, error) {
	if t.generator == nil {
		return "", stderrors.NewTranscriptionFailedError(fmt.Errorf("no generative backend configured"))
	}
	if len(data) == 0 {
		return "", stderrors.NewTranscriptionFailedError(fmt.Errorf("empty audio payload"))
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	text, err := genai.RetryWithBackoff(ctx, func() (string, error) {
		return t.generator.GenerateFromAudio(ctx, transcriptionPrompt, data, mimeType)
	}, t.maxRetries, t.initialDelay, func() {
		metrics.TranscriptionRetries.Inc()
		t.log.Warn("transcription backend overloaded, retrying", map[string]interface{}{
			"mime_type": mimeType,
		})
	})
	if err != nil {
		if genai.IsOverloaded(err) {
			return "", stderrors.NewModelOverloadedError(err.Error())
		}
		return "", stderrors.NewTranscriptionFailedError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", stderrors.NewEmptyTranscriptError()
	}

	t.log.Info("audio transcribed", map[string]interface{}{
		"mime_type": mimeType,
		"bytes":     len(data),
		"chars":     len(text),
	})
	return text, nil
}

// MimeTypeForPath maps a file extension to its audio MIME type, defaulting
// to audio/webm for anything unrecognized.
func MimeTypeForPath(path string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return defaultMimeType
}
