package executor

import (
	"errors"
	"fmt"

	"github.com/v0xg/webvision/internal/config"
)

// Action types
const (
	ActionNavigate = "navigate"
	ActionType     = "type"
	ActionClick    = "click"
	ActionWait     = "wait"
)

// Action represents a single scripted browser step run before extraction
type Action struct {
	Type     string `json:"action"`             // navigate, type, click, wait
	Selector string `json:"selector,omitempty"` // CSS selector for the target element
	Text     string `json:"text,omitempty"`     // Text to type (for type action)
	URL      string `json:"url,omitempty"`      // URL for navigate action
	Duration int    `json:"wait,omitempty"`     // Wait duration in ms after action
	// Secret hides Text from logs
	Secret bool `json:"-"`
}

// Validate checks that the action carries what its type needs
func (a Action) Validate() error {
	switch a.Type {
	case ActionNavigate:
		if a.URL == "" {
			return errors.New("navigate action needs a url")
		}
	case ActionType:
		if a.Selector == "" {
			return errors.New("type action needs a selector")
		}
	case ActionClick:
		if a.Selector == "" {
			return errors.New("click action needs a selector")
		}
	case ActionWait:
		if a.Duration <= 0 {
			return errors.New("wait action needs a positive duration")
		}
	default:
		return fmt.Errorf("unknown action type: %q", a.Type)
	}
	if a.Duration < 0 {
		return errors.New("duration must not be negative")
	}
	return nil
}

// String describes the action for progress output, masking secrets
func (a Action) String() string {
	switch a.Type {
	case ActionNavigate:
		return "navigate " + a.URL
	case ActionType:
		text := a.Text
		if a.Secret {
			text = "********"
		}
		return fmt.Sprintf("type %q into %s", text, a.Selector)
	case ActionWait:
		return fmt.Sprintf("wait %dms", a.Duration)
	default:
		return a.Type + " " + a.Selector
	}
}

// LoginActions builds the form login script for cfg, or nil when login
// is not configured.
func LoginActions(cfg config.LoginConfig) []Action {
	if !cfg.Enabled() {
		return nil
	}
	return []Action{
		{Type: ActionNavigate, URL: cfg.URL},
		{Type: ActionType, Selector: cfg.UsernameSelector, Text: cfg.Username},
		{Type: ActionType, Selector: cfg.PasswordSelector, Text: cfg.Password, Secret: true},
		{Type: ActionClick, Selector: cfg.SubmitSelector},
	}
}
