package ai

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

// OpenAIProvider implements the Provider interface using OpenAI
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	apiKey := os.Getenv("WEBVISION_OPENAI_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("WEBVISION_OPENAI_KEY or OPENAI_API_KEY environment variable required")
	}
	return NewOpenAIProviderWithConfig(openai.DefaultConfig(apiKey), model), nil
}

// NewOpenAIProviderWithConfig creates a provider for an explicit client
// config, e.g. an Azure or self-hosted endpoint.
func NewOpenAIProviderWithConfig(cfg openai.ClientConfig, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// SuggestMatches asks OpenAI to map unmatched requirements onto page fields
func (p *OpenAIProvider) SuggestMatches(ctx context.Context, unmatched []correlate.Requirement, fields []snapshot.FieldRecord) ([]Suggestion, error) {
	return suggest(ctx, p, unmatched, fields)
}

func (p *OpenAIProvider) name() string { return "OpenAI" }

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: user,
				},
			},
			MaxTokens: 2048,
		},
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
