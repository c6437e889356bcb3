package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dangwonlab/dangwon/internal/llm/prompts"
	"github.com/dangwonlab/dangwon/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible chat completion API. Pointing BaseURL at
// a compatibility endpoint (Gemini, Ollama, ...) works unchanged.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable and credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint unreachable: %w", err)
	}
	return nil
}

// GenerateQuestions asks the model for count candidate questions spread
// across the given units. The response is decoded tolerantly: an
// unparseable response yields an empty slice, not an error, so the caller
// can retry or report insufficient yield. Only transport-level failures
// return an error.
func (c *Client) GenerateQuestions(ctx context.Context, units []model.UnitRef, count int) ([]model.GeneratedQuestion, error) {
	prompt, err := prompts.BuildGeneratePrompt(units, count)
	if err != nil {
		return nil, err
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	questions := DecodeQuestions(raw)
	if len(questions) == 0 {
		slog.Warn("LLM response contained no usable questions", "len", len(raw))
	}
	return questions, nil
}
