package snapshot

import (
	"encoding/json"
	"slices"
	"strings"
)

// FieldRecord summarizes one interactive element.
//
// Records compare structurally: two records are the same field when every
// attribute matches, with Options compared as a set.
type FieldRecord struct {
	Selector    string   `json:"selector"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Label       string   `json:"label,omitempty"`
	Options     []string `json:"options,omitempty"`
	Href        string   `json:"href,omitempty"`
	AriaLabel   string   `json:"aria-label,omitempty"`
	ReadOnly    bool     `json:"readonly"`
	Disabled    bool     `json:"disabled"`
}

type fieldKey struct {
	selector, text, typ, name, role, value, placeholder string
	label, options, href, ariaLabel                     string
	readOnly, disabled                                  bool
}

func (f FieldRecord) key() fieldKey {
	return fieldKey{
		selector:    f.Selector,
		text:        f.Text,
		typ:         f.Type,
		name:        f.Name,
		role:        f.Role,
		value:       f.Value,
		placeholder: f.Placeholder,
		label:       f.Label,
		options:     canonicalOptions(f.Options),
		href:        f.Href,
		ariaLabel:   f.AriaLabel,
		readOnly:    f.ReadOnly,
		disabled:    f.Disabled,
	}
}

// Equal reports structural equality.
func (f FieldRecord) Equal(other FieldRecord) bool {
	return f.key() == other.key()
}

func canonicalOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), "\x1f")
}

// FieldSet is an insertion-ordered set of FieldRecords. The zero value and
// a nil *FieldSet are both empty sets.
type FieldSet struct {
	records []FieldRecord
	index   map[fieldKey]struct{}
}

// NewFieldSet returns a set holding records, duplicates collapsed.
func NewFieldSet(records ...FieldRecord) *FieldSet {
	s := &FieldSet{}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add inserts r and reports whether it was not already present.
func (s *FieldSet) Add(r FieldRecord) bool {
	k := r.key()
	if s.index == nil {
		s.index = make(map[fieldKey]struct{})
	}
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// Contains reports whether a structurally equal record is in the set.
func (s *FieldSet) Contains(r FieldRecord) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[r.key()]
	return ok
}

// ContainsAll reports whether s is a superset of other.
func (s *FieldSet) ContainsAll(other *FieldSet) bool {
	for _, r := range other.Records() {
		if !s.Contains(r) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct records.
func (s *FieldSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns the records in insertion order.
func (s *FieldSet) Records() []FieldRecord {
	if s == nil {
		return nil
	}
	return slices.Clone(s.records)
}

// MarshalJSON encodes the set as an array. Order carries no meaning.
func (s *FieldSet) MarshalJSON() ([]byte, error) {
	if s.Len() == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.records)
}

// UnmarshalJSON decodes an array, collapsing duplicate records.
func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var records []FieldRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	*s = FieldSet{}
	for _, r := range records {
		s.Add(r)
	}
	return nil
}
