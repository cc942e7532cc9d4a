// Package snapshot holds the serializable page structure produced by an
// extraction run.
package snapshot

// Component categories, one per semantic container tag plus the div fallback.
const (
	TypeForm    = "form"
	TypeNavbar  = "navbar"
	TypeHeader  = "header"
	TypeSidebar = "sidebar"
	TypeMain    = "main"
	TypeFooter  = "footer"
	TypeSection = "section"
)

// BoundingBox is the rendered geometry of a displayed element.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Component is a classified region of a page with its interactive surface.
type Component struct {
	Type        string            `json:"type"`
	Tag         string            `json:"tag"`
	OwnText     string            `json:"text"`
	ID          string            `json:"id"`
	Classes     string            `json:"classes"`
	AriaLabel   string            `json:"ariaLabel,omitempty"`
	Selector    string            `json:"selector"`
	Role        string            `json:"role"`
	BoundingBox *BoundingBox      `json:"boundingBox,omitempty"`
	Attributes  map[string]string `json:"attributes"`
	Actions     *FieldSet         `json:"actions"`
	Fields      *FieldSet         `json:"fields"`
}

// Covers reports whether c already exposes every field and action of other.
func (c *Component) Covers(other *Component) bool {
	return c.Fields.ContainsAll(other.Fields) && c.Actions.ContainsAll(other.Actions)
}

// PageSnapshot is the extraction artifact for one page.
type PageSnapshot struct {
	PageURL    string       `json:"pageUrl"`
	Components []*Component `json:"components"`
}

// Fields flattens the fields of all components in discovery order.
func (p *PageSnapshot) Fields() []FieldRecord {
	var out []FieldRecord
	for _, c := range p.Components {
		if c == nil {
			continue
		}
		out = append(out, c.Fields.Records()...)
	}
	return out
}
