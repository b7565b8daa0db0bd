// Package openai adapts the OpenAI chat completions API to the generation
// package's Oracle interface.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/generation"
)

// chatClient is the slice of the OpenAI client the invoker uses.
// Narrowed to an interface so tests can substitute a fake.
type chatClient interface {
	CreateChatCompletion(
		ctx context.Context,
		request openai.ChatCompletionRequest,
	) (openai.ChatCompletionResponse, error)
}

// Invoker performs chat completion calls against the OpenAI API.
type Invoker struct {
	client chatClient
	model  string
}

var _ generation.Oracle = (*Invoker)(nil)

// NewInvoker creates an Invoker from configuration. A missing API key is not
// an immediate error; calls will fail with ErrUpstreamUnavailable so the rest
// of the service can still boot (e.g. for smoke tests against /health).
func NewInvoker(cfg config.LLMConfig) *Invoker {
	var client chatClient
	if cfg.OpenAIAPIKey != "" {
		client = openai.NewClient(cfg.OpenAIAPIKey)
	}
	return &Invoker{
		client: client,
		model:  cfg.ModelName,
	}
}

// Model returns the configured model identifier.
func (inv *Invoker) Model() string {
	return inv.model
}

// Complete performs one chat completion call, asking for a JSON object
// response. Transport and API failures are translated into the generation
// package's upstream error kinds.
func (inv *Invoker) Complete(ctx context.Context, call generation.Call) (*generation.Completion, error) {
	if inv.client == nil {
		return nil, fmt.Errorf("%w: no API key configured", generation.ErrUpstreamUnavailable)
	}

	req := openai.ChatCompletionRequest{
		Model:       inv.model,
		Messages:    buildMessages(call.Prompt),
		Temperature: call.Temperature,
		MaxTokens:   call.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := inv.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, generation.ErrUpstreamEmpty
	}

	choice := resp.Choices[0]
	return &generation.Completion{
		Content:          choice.Message.Content,
		FinishReason:     mapFinishReason(choice.FinishReason),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// buildMessages assembles the system and user messages. Text-only prompts use
// a plain content string; prompts with images use multi-part content with the
// instruction text first, then one high-detail image part per page.
func buildMessages(prompt generation.Prompt) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		},
	}

	if len(prompt.Images) == 0 {
		return append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt.Text,
		})
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: prompt.Text,
		},
	}
	for _, image := range prompt.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    image,
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:         openai.ChatMessageRoleUser,
		MultiContent: parts,
	})
}

// mapFinishReason folds the provider's reasons into the two we act on.
// Anything other than an explicit length cutoff counts as a clean stop;
// content filtering and tool calls don't occur with our prompts.
func mapFinishReason(reason openai.FinishReason) generation.FinishReason {
	if reason == openai.FinishReasonLength {
		return generation.FinishReasonLength
	}
	return generation.FinishReasonStop
}

// mapAPIError translates API and transport errors into upstream error kinds.
func mapAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", generation.ErrUpstreamAuth, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", generation.ErrUpstreamRateLimited, apiErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", generation.ErrUpstreamUnavailable, err)
}
