package section

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Field names a section attribute settable through Update.
type Field string

const (
	FieldSectionID Field = "sectionId"
	FieldTitle     Field = "title"
	FieldType      Field = "type"
	FieldOrder     Field = "order"
	FieldContent   Field = "content"
)

// Editor is the in-memory section list behind the builder. Array position
// is the effective order; the Order fields are only rewritten by Normalized.
// An Editor is not safe for concurrent use.
type Editor struct {
	sections []Section
}

func NewEditor(ss []Section) *Editor {
	return &Editor{sections: CloneAll(ss)}
}

// Reset replaces the whole list.
func (e *Editor) Reset(ss []Section) {
	e.sections = CloneAll(ss)
}

func (e *Editor) Len() int { return len(e.sections) }

func (e *Editor) inRange(i int) bool { return i >= 0 && i < len(e.sections) }

// Section returns a copy of the section at i.
func (e *Editor) Section(i int) (Section, bool) {
	if !e.inRange(i) {
		return Section{}, false
	}
	return e.sections[i].Clone(), true
}

// Sections returns a deep copy of the list.
func (e *Editor) Sections() []Section {
	out := CloneAll(e.sections)
	if out == nil {
		out = []Section{}
	}
	return out
}

// Normalized returns a copy with order rewritten to index+1.
func (e *Editor) Normalized() []Section {
	return Normalize(e.sections)
}

// Add appends an empty banner section and returns its index.
func (e *Editor) Add() int {
	v, _ := Lookup(TypeBanner)
	e.sections = append(e.sections, Section{
		Type:    TypeBanner,
		Order:   len(e.sections) + 1,
		Content: v.Empty(),
	})
	return len(e.sections) - 1
}

// Remove deletes the section at i. Out of range is a no-op returning false.
func (e *Editor) Remove(i int) bool {
	if !e.inRange(i) {
		return false
	}
	e.sections = append(e.sections[:i:i], e.sections[i+1:]...)
	return true
}

// Move swaps the section at i with its neighbour. It returns false, leaving
// the list unchanged, when either position falls outside the list.
func (e *Editor) Move(i int, d Direction) bool {
	j := i
	switch d {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return false
	}
	if !e.inRange(i) || !e.inRange(j) {
		return false
	}
	e.sections[i], e.sections[j] = e.sections[j], e.sections[i]
	return true
}

// Update replaces one field of the section at i. value is either the Go
// value of the field or its raw JSON encoding.
func (e *Editor) Update(i int, f Field, value any) error {
	if !e.inRange(i) {
		return apperr.Validation(apperr.CodeIndexOutOfRange, "", "section %d out of range [0,%d)", i, len(e.sections))
	}
	s := e.sections[i]
	switch f {
	case FieldSectionID, FieldTitle:
		str, ok := asString(value)
		if !ok {
			return badValue(i, f, value)
		}
		if f == FieldSectionID {
			s.SectionID = str
		} else {
			s.Title = str
		}
	case FieldOrder:
		n, ok := asInt(value)
		if !ok {
			return badValue(i, f, value)
		}
		s.Order = n
	case FieldType:
		str, ok := asString(value)
		if !ok {
			return badValue(i, f, value)
		}
		v, known := Lookup(Type(str))
		if !known {
			return apperr.Validation(apperr.CodeUnknownType, fieldPath(i, f), "unknown section type %q", str)
		}
		s.Type = v.Type
		if s.bad != nil || !v.Accepts(s.Content) {
			s.Content = v.Empty()
		}
		s.bad = nil
	case FieldContent:
		v, _ := Lookup(s.Type)
		c, err := asContent(v, s.Content, value)
		if err != nil {
			return apperr.Validation(apperr.CodeContentMismatch, fieldPath(i, f), "content does not match type %s: %v", s.Type, err)
		}
		if len(buttonsOf(c)) > v.MaxButtons && v.MaxButtons > 0 {
			return apperr.Validation(apperr.CodeButtonLimit, fieldPath(i, f), "at most %d buttons", v.MaxButtons)
		}
		s.Content = cloneContent(c)
		s.bad = nil
	default:
		return apperr.Validation(apperr.CodeFieldInvalid, fieldPath(i, f), "unknown field %q", f)
	}
	e.sections[i] = s
	return nil
}

func fieldPath(i int, f Field) string {
	return "sections[" + strconv.Itoa(i) + "]." + string(f)
}

func badValue(i int, f Field, value any) error {
	return apperr.Validation(apperr.CodeValueInvalid, fieldPath(i, f), "unexpected value %T", value)
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case Type:
		return string(v), true
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.RawMessage:
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// asContent converts value into v's content shape. Plain strings are
// accepted for the string-backed shapes; a string image, Go or JSON, keeps
// the banner's current buttons.
func asContent(v Variant, cur Content, value any) (Content, error) {
	if raw, ok := value.(json.RawMessage); ok {
		var str string
		if v.Shape != ShapeImage || isNull(raw) || json.Unmarshal(raw, &str) != nil {
			return decodeJSON(v.Shape, raw)
		}
		value = str
	}
	switch c := value.(type) {
	case string:
		switch v.Shape {
		case ShapeImage:
			b, _ := cur.(Banner)
			b.Image = c
			return b, nil
		case ShapeText:
			return Text(c), nil
		case ShapeURL:
			return Video(c), nil
		}
	case []Button:
		if v.Shape == ShapeButtons {
			return Buttons(c), nil
		}
	case Content:
		if v.Accepts(c) {
			return c, nil
		}
	}
	return nil, errMismatch
}

var errMismatch = apperr.New(apperr.KindValidation, apperr.CodeContentMismatch, "content shape mismatch")
