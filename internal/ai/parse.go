package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSONArray decodes a JSON array from a response that may wrap it in
// prose or a markdown fence.
func parseJSONArray(response string, v any) error {
	// First try direct parsing
	if err := json.Unmarshal([]byte(response), v); err == nil {
		return nil
	}

	// Find JSON array in response (look for [ ... ])
	start := strings.Index(response, "[")
	if start == -1 {
		return fmt.Errorf("no JSON array found in response")
	}

	// Find matching closing bracket, ignoring brackets inside strings
	depth := 0
	end := -1
	inString, escaped := false, false
	for i := start; i < len(response) && end == -1; i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}

	if end == -1 {
		return fmt.Errorf("no matching closing bracket found")
	}

	if err := json.Unmarshal([]byte(response[start:end]), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}
