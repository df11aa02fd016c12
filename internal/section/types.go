// Package section models the typed content blocks a campaign page is built
// from: the variant table, the list editor used by the builder and the
// renderer dispatch used by the public page.
package section

// Type is the section discriminant.
type Type string

const (
	TypeBanner   Type = "banner"
	TypeHeader   Type = "header"
	TypeButtons  Type = "buttons"
	TypeVideo    Type = "video"
	TypeMoreInfo Type = "moreInfo"
)

type ButtonKind string

const (
	ButtonFilled   ButtonKind = "filled"
	ButtonOutlined ButtonKind = "outlined"
)

// ExternalPrefix marks a button action that opens an external URL.
const ExternalPrefix = "blank:"

// MaxImageBytes caps embedded banner payloads.
const MaxImageBytes = 5 << 20

// Button is a call-to-action inside a buttons or banner section.
type Button struct {
	Name   string     `json:"name" bson:"name"`
	Action string     `json:"action" bson:"action"`
	Type   ButtonKind `json:"type" bson:"type"`
}

// Section is one typed block of a campaign page. Content's concrete type is
// determined by Type through the variant table.
type Section struct {
	SectionID string
	Title     string
	Type      Type
	Order     int
	Content   Content

	// set when stored content could not be decoded into the variant's shape
	bad error
}

// Clone returns a deep copy of s.
func (s Section) Clone() Section {
	s.Content = cloneContent(s.Content)
	return s
}

// Normalize returns a copy of ss with dense 1-based order and defaulted
// button kinds.
func Normalize(ss []Section) []Section {
	out := make([]Section, len(ss))
	for i, s := range ss {
		s = s.Clone()
		s.Order = i + 1
		if bs := buttonsOf(s.Content); bs != nil {
			for j := range bs {
				if bs[j].Type == "" {
					bs[j].Type = ButtonFilled
				}
			}
		}
		out[i] = s
	}
	return out
}

// CloneAll deep-copies a section list.
func CloneAll(ss []Section) []Section {
	if ss == nil {
		return nil
	}
	out := make([]Section, len(ss))
	for i, s := range ss {
		out[i] = s.Clone()
	}
	return out
}
