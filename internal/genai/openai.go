// internal/genai/openai.go
package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voice-assistant/internal/common/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient is the text-only backend for OpenAI-compatible chat
// endpoints. Audio transcription stays on the Gemini backend.
type OpenAIClient struct {
	model  string
	client openai.Client
}

func NewOpenAIClient(cfg config.GenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(time.Duration(cfg.Timeout) * time.Millisecond),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		model:  cfg.AIModel,
		client: openai.NewClient(opts...),
	}
}

func (o *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		if IsOverloaded(err) {
			return "", fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
		return "", fmt.Errorf("openai call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIClient) GenerateFromAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error) {
	return "", fmt.Errorf("openai backend does not support inline audio; configure a gemini model for transcription")
}
