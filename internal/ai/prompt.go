package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/webvision/internal/correlate"
	"github.com/v0xg/webvision/internal/snapshot"
)

const suggestSystemPrompt = `You map software requirements onto the input fields of a web page.

You will receive:
1. Requirements that could not be matched by id, name or label
2. The input fields extracted from the page, each with a unique selector

For every requirement you can map with reasonable confidence, output one object:
- "requirementId": the requirement id, copied exactly
- "selector": the selector of the chosen field, copied exactly from the field list
- "confidence": a number between 0 and 1
- "reason": a short explanation

Guidelines:
- Use only selectors from the provided field list
- Skip requirements with no plausible field; do not guess
- Prefer fields whose label, placeholder, aria-label or name describes the requirement
- At most one object per requirement

Respond ONLY with a JSON array, no explanation or markdown. Respond with [] if nothing matches.`

type promptRequirement struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

type promptField struct {
	Selector    string   `json:"selector"`
	Type        string   `json:"type"`
	Name        string   `json:"name,omitempty"`
	Label       string   `json:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	AriaLabel   string   `json:"aria-label,omitempty"`
	Options     []string `json:"options,omitempty"`
}

func buildSuggestPrompt(unmatched []correlate.Requirement, fields []snapshot.FieldRecord) (string, error) {
	reqs := make([]promptRequirement, 0, len(unmatched))
	for _, r := range unmatched {
		reqs = append(reqs, promptRequirement{ID: r.ID, Label: r.Label, Type: r.Type})
	}
	pf := make([]promptField, 0, len(fields))
	for _, f := range fields {
		pf = append(pf, promptField{
			Selector:    f.Selector,
			Type:        f.Type,
			Name:        f.Name,
			Label:       f.Label,
			Placeholder: f.Placeholder,
			AriaLabel:   f.AriaLabel,
			Options:     f.Options,
		})
	}

	reqJSON, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal requirements: %w", err)
	}
	fieldJSON, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal fields: %w", err)
	}

	return fmt.Sprintf("Unmatched requirements:\n%s\n\nPage fields:\n%s\n\nGenerate the JSON array of suggestions.", reqJSON, fieldJSON), nil
}

const testPromptTemplate = `ROLE: You are a QA automation engineer who writes maintainable BDD test suites with the Page Object Model.

CONTEXT:
1. Target URL: %s
2. Requirements JSON: the primary source of truth. It lists each field with its id, label, type and validation rules (mandatory, length, format) and the error messages to assert.
3. Page Structure JSON: the components extracted from the rendered page, with the selector, label and type of every field and action.

TASK: Produce three complete files for the feature:
1. A Cucumber .feature file.
2. A Page Object class.
3. A Step Definitions class.

INSTRUCTIONS:

1. Map requirements to UI elements.
   - Match the requirement id against an element id (selector "#<id>"), then against its name attribute.
   - Otherwise compare the requirement label with the element label, ignoring case and a trailing colon.
   - When no element fits, leave a "TODO: manual locator needed" comment in the Page Object.

2. The .feature file.
   - A Feature and Background describing the user story.
   - One happy-path scenario that fills every field with valid data and submits.
   - For each mandatory field, a Scenario Outline that leaves it blank and asserts the missing-value message.
   - For each length or format rule, a Scenario Outline whose Examples table covers the invalid inputs and asserts the matching message.

3. The Page Object.
   - One locator per element, using the selector from the Page Structure JSON.
   - One interaction method per field and getters for error and success messages.
   - All browser calls live in this class.

4. The Step Definitions.
   - Receive the Page Object through the constructor.
   - Call only Page Object methods; no direct browser calls.

---
HERE IS THE CONTEXT:

Requirements JSON:
` + "```json\n%s\n```" + `

Page Structure JSON:
` + "```json\n%s\n```\n"

// BuildTestPrompt renders the prompt a downstream generator uses to write
// test artifacts from a requirements document and a page snapshot. Both
// documents are embedded verbatim.
func BuildTestPrompt(srsJSON, uiJSON, targetURL string) string {
	if targetURL == "" {
		targetURL = "(not provided; use the page URL from the Page Structure JSON)"
	}
	return fmt.Sprintf(testPromptTemplate,
		targetURL,
		strings.TrimSpace(srsJSON),
		strings.TrimSpace(uiJSON),
	)
}
