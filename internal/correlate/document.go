package correlate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidDocument is returned when a requirements document cannot be
// used for correlation.
var ErrInvalidDocument = errors.New("invalid requirements document")

// Requirement is one entry of a requirements document.
type Requirement struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Type        string           `json:"type"`
	Validations []map[string]any `json:"validations"`
}

// Document is a feature's requirements document.
type Document struct {
	Feature            string        `json:"feature"`
	FeatureDescription string        `json:"featureDescription"`
	Requirements       []Requirement `json:"requirements"`
}

// LoadDocument reads and validates the requirements document at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// DecodeDocument parses a requirements document. The requirements list
// must be present and every requirement must carry an id.
func DecodeDocument(r io.Reader) (*Document, error) {
	var raw struct {
		Document
		Requirements *[]Requirement `json:"requirements"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidDocument, err)
	}
	if raw.Requirements == nil {
		return nil, fmt.Errorf("%w: missing requirements", ErrInvalidDocument)
	}

	doc := raw.Document
	doc.Requirements = *raw.Requirements
	for i, req := range doc.Requirements {
		if req.ID == "" {
			return nil, fmt.Errorf("%w: requirement %d has no id", ErrInvalidDocument, i)
		}
	}
	return &doc, nil
}
