// Package ai builds prompts for downstream test generation and asks an LLM
// for advisory matches of requirements the correlation passes left open.
package ai

import (
	"context"
	"fmt"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

// Suggestion is an advisory mapping proposed by a model. It is never
// treated as a correlation.
type Suggestion struct {
	RequirementID string  `json:"requirementId"`
	Selector      string  `json:"selector"`
	Confidence    float64 `json:"confidence"`
	Reason        string  `json:"reason,omitempty"`
}

// Provider proposes matches for unmatched requirements
type Provider interface {
	SuggestMatches(ctx context.Context, unmatched []correlate.Requirement, fields []snapshot.FieldRecord) ([]Suggestion, error)
}

// completer sends one system+user exchange and returns the text reply
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
	name() string
}

// NewProvider creates a new AI provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

func suggest(ctx context.Context, c completer, unmatched []correlate.Requirement, fields []snapshot.FieldRecord) ([]Suggestion, error) {
	if len(unmatched) == 0 || len(fields) == 0 {
		return nil, nil
	}

	userPrompt, err := buildSuggestPrompt(unmatched, fields)
	if err != nil {
		return nil, err
	}

	responseText, err := c.complete(ctx, suggestSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", c.name(), err)
	}
	if responseText == "" {
		return nil, fmt.Errorf("empty response from %s", c.name())
	}

	var suggestions []Suggestion
	if err := parseJSONArray(responseText, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse %s response as JSON: %w\nResponse: %s", c.name(), err, responseText)
	}
	return filterSuggestions(suggestions, unmatched, fields), nil
}

// filterSuggestions drops suggestions naming requirements that were not
// asked about or selectors that are not on the page, keeping the first
// suggestion per requirement.
func filterSuggestions(in []Suggestion, unmatched []correlate.Requirement, fields []snapshot.FieldRecord) []Suggestion {
	wanted := make(map[string]bool, len(unmatched))
	for _, r := range unmatched {
		wanted[r.ID] = true
	}
	onPage := make(map[string]bool, len(fields))
	for _, f := range fields {
		onPage[f.Selector] = true
	}

	var out []Suggestion
	for _, s := range in {
		if !wanted[s.RequirementID] || !onPage[s.Selector] {
			continue
		}
		wanted[s.RequirementID] = false
		out = append(out, s)
	}
	return out
}
