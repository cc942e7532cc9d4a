package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

// ClaudeProvider implements the Provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client *anthropic.Client
	model  string
}

// NewClaudeProvider creates a new Claude provider. Extra request options
// are passed to the client, e.g. a base URL.
func NewClaudeProvider(model string, opts ...option.RequestOption) (*ClaudeProvider, error) {
	apiKey := os.Getenv("WEBVISION_ANTHROPIC_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("WEBVISION_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	return &ClaudeProvider{
		client: &client,
		model:  model,
	}, nil
}

// SuggestMatches asks Claude to map unmatched requirements onto page fields
func (p *ClaudeProvider) SuggestMatches(ctx context.Context, unmatched []correlate.Requirement, fields []snapshot.FieldRecord) ([]Suggestion, error) {
	return suggest(ctx, p, unmatched, fields)
}

func (p *ClaudeProvider) name() string { return "Claude" }

func (p *ClaudeProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}

	// Extract text content
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
