package section

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Content is a section payload. The concrete types are Banner, Text,
// Buttons and Video.
type Content interface {
	isContent()
}

// Banner is an embedded image (data URI or URL) with optional buttons.
type Banner struct {
	Image   string   `json:"image" bson:"image"`
	Buttons []Button `json:"buttons,omitempty" bson:"buttons,omitempty"`
}

// Text is free text (markdown) for header and moreInfo sections.
type Text string

// Buttons is the ordered button list of a buttons section.
type Buttons []Button

// Video is an embeddable video URL.
type Video string

func (Banner) isContent()  {}
func (Text) isContent()    {}
func (Buttons) isContent() {}
func (Video) isContent()   {}

func cloneContent(c Content) Content {
	switch v := c.(type) {
	case Banner:
		v.Buttons = cloneButtons(v.Buttons)
		return v
	case Buttons:
		return Buttons(cloneButtons(v))
	}
	return c
}

// cloneButtons copies bs, keeping nil and empty apart.
func cloneButtons(bs []Button) []Button {
	if bs == nil {
		return nil
	}
	out := make([]Button, len(bs))
	copy(out, bs)
	return out
}

// buttonsOf returns the button slice carried by c, nil when c has none.
func buttonsOf(c Content) []Button {
	switch v := c.(type) {
	case Banner:
		return v.Buttons
	case Buttons:
		return v
	}
	return nil
}

func withButtons(c Content, bs []Button) Content {
	switch v := c.(type) {
	case Banner:
		v.Buttons = bs
		return v
	case Buttons:
		return Buttons(bs)
	}
	return c
}

// wire is the shared JSON shape of a section.
type wire struct {
	SectionID string          `json:"sectionId,omitempty"`
	Title     string          `json:"title,omitempty"`
	Type      Type            `json:"type"`
	Order     int             `json:"order"`
	Content   json.RawMessage `json:"content"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(encodeContent(s.Content))
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire{
		SectionID: s.SectionID,
		Title:     s.Title,
		Type:      s.Type,
		Order:     s.Order,
		Content:   raw,
	})
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Section{SectionID: w.SectionID, Title: w.Title, Type: w.Type, Order: w.Order}
	v, ok := Lookup(w.Type)
	if !ok {
		return nil
	}
	s.Content, s.bad = decodeJSON(v.Shape, w.Content)
	if s.bad != nil {
		s.Content = nil
	}
	return nil
}

// encodeContent maps c to its wire value. A banner without buttons is a bare
// image string.
func encodeContent(c Content) any {
	switch v := c.(type) {
	case Banner:
		if len(v.Buttons) == 0 {
			return v.Image
		}
		return v
	case Text:
		return string(v)
	case Video:
		return string(v)
	case Buttons:
		if v == nil {
			return []Button{}
		}
		return []Button(v)
	}
	return nil
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeJSON(shape Shape, raw json.RawMessage) (Content, error) {
	switch shape {
	case ShapeImage:
		if isNull(raw) {
			return Banner{}, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Banner{Image: s}, nil
		}
		var b Banner
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("banner content: %w", err)
		}
		return b, nil
	case ShapeText:
		var s string
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("text content: %w", err)
			}
		}
		return Text(s), nil
	case ShapeURL:
		var s string
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("video content: %w", err)
			}
		}
		return Video(s), nil
	case ShapeButtons:
		bs := Buttons{}
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &bs); err != nil {
				return nil, fmt.Errorf("buttons content: %w", err)
			}
		}
		return bs, nil
	}
	return nil, fmt.Errorf("unknown shape %d", shape)
}

type bsonWire struct {
	SectionID string        `bson:"sectionId,omitempty"`
	Title     string        `bson:"title,omitempty"`
	Type      Type          `bson:"type"`
	Order     int           `bson:"order"`
	Content   bson.RawValue `bson:"content"`
}

func (s Section) MarshalBSON() ([]byte, error) {
	doc := bson.D{}
	if s.SectionID != "" {
		doc = append(doc, bson.E{Key: "sectionId", Value: s.SectionID})
	}
	if s.Title != "" {
		doc = append(doc, bson.E{Key: "title", Value: s.Title})
	}
	doc = append(doc,
		bson.E{Key: "type", Value: s.Type},
		bson.E{Key: "order", Value: s.Order},
		bson.E{Key: "content", Value: encodeContent(s.Content)},
	)
	return bson.Marshal(doc)
}

func (s *Section) UnmarshalBSON(data []byte) error {
	var w bsonWire
	if err := bson.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Section{SectionID: w.SectionID, Title: w.Title, Type: w.Type, Order: w.Order}
	v, ok := Lookup(w.Type)
	if !ok {
		return nil
	}
	s.Content, s.bad = decodeBSON(v.Shape, w.Content)
	if s.bad != nil {
		s.Content = nil
	}
	return nil
}

func bsonNull(rv bson.RawValue) bool {
	return rv.Type == 0 || rv.Type == bsontype.Null || rv.Type == bsontype.Undefined
}

func decodeBSON(shape Shape, rv bson.RawValue) (Content, error) {
	switch shape {
	case ShapeImage:
		if bsonNull(rv) {
			return Banner{}, nil
		}
		if s, ok := rv.StringValueOK(); ok {
			return Banner{Image: s}, nil
		}
		if rv.Type != bsontype.EmbeddedDocument {
			return nil, fmt.Errorf("banner content: unexpected bson type %s", rv.Type)
		}
		var b Banner
		if err := rv.Unmarshal(&b); err != nil {
			return nil, fmt.Errorf("banner content: %w", err)
		}
		return b, nil
	case ShapeText, ShapeURL:
		var s string
		if !bsonNull(rv) {
			var ok bool
			if s, ok = rv.StringValueOK(); !ok {
				return nil, fmt.Errorf("string content: unexpected bson type %s", rv.Type)
			}
		}
		if shape == ShapeURL {
			return Video(s), nil
		}
		return Text(s), nil
	case ShapeButtons:
		bs := Buttons{}
		if bsonNull(rv) {
			return bs, nil
		}
		if rv.Type != bsontype.Array {
			return nil, fmt.Errorf("buttons content: unexpected bson type %s", rv.Type)
		}
		var list []Button
		if err := rv.Unmarshal(&list); err != nil {
			return nil, fmt.Errorf("buttons content: %w", err)
		}
		return append(bs, list...), nil
	}
	return nil, fmt.Errorf("unknown shape %d", shape)
}
