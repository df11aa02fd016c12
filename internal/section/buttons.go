package section

import (
	"fmt"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

// ButtonField names a settable button attribute.
type ButtonField string

const (
	ButtonName   ButtonField = "name"
	ButtonAction ButtonField = "action"
)

// buttonsAt returns the variant and a private copy of the buttons of
// section i, failing when the section cannot carry buttons.
func (e *Editor) buttonsAt(i int) (Variant, []Button, error) {
	if !e.inRange(i) {
		return Variant{}, nil, apperr.Validation(apperr.CodeIndexOutOfRange, "", "section %d out of range [0,%d)", i, len(e.sections))
	}
	s := e.sections[i]
	v, ok := Lookup(s.Type)
	if !ok || v.MaxButtons == 0 || s.bad != nil || !v.Accepts(s.Content) {
		return Variant{}, nil, apperr.Validation(apperr.CodeNoButtons, fieldPath(i, FieldContent), "section type %q has no buttons", s.Type)
	}
	return v, append([]Button(nil), buttonsOf(s.Content)...), nil
}

func (e *Editor) setButtons(i int, bs []Button) {
	e.sections[i].Content = withButtons(e.sections[i].Content, bs)
}

func buttonPath(i, b int) string {
	return fmt.Sprintf("sections[%d].buttons[%d]", i, b)
}

// AddButton appends an empty filled button to section i and returns its
// index. A section at capacity is left unchanged.
func (e *Editor) AddButton(i int) (int, error) {
	v, bs, err := e.buttonsAt(i)
	if err != nil {
		return -1, err
	}
	if len(bs) >= v.MaxButtons {
		return -1, apperr.Validation(apperr.CodeButtonLimit, fieldPath(i, FieldContent), "at most %d buttons", v.MaxButtons)
	}
	bs = append(bs, Button{Type: ButtonFilled})
	e.setButtons(i, bs)
	return len(bs) - 1, nil
}

func (e *Editor) RemoveButton(i, b int) error {
	_, bs, err := e.buttonsAt(i)
	if err != nil {
		return err
	}
	if b < 0 || b >= len(bs) {
		return apperr.Validation(apperr.CodeButtonOutOfRange, buttonPath(i, b), "button %d out of range [0,%d)", b, len(bs))
	}
	e.setButtons(i, append(bs[:b], bs[b+1:]...))
	return nil
}

func (e *Editor) SetButtonType(i, b int, kind ButtonKind) error {
	if kind != ButtonFilled && kind != ButtonOutlined {
		return apperr.Validation(apperr.CodeButtonType, buttonPath(i, b)+".type", "button type %q", kind)
	}
	return e.editButton(i, b, func(btn *Button) { btn.Type = kind })
}

func (e *Editor) SetButtonField(i, b int, f ButtonField, value string) error {
	switch f {
	case ButtonName:
		return e.editButton(i, b, func(btn *Button) { btn.Name = value })
	case ButtonAction:
		return e.editButton(i, b, func(btn *Button) { btn.Action = value })
	}
	return apperr.Validation(apperr.CodeFieldInvalid, buttonPath(i, b), "unknown button field %q", f)
}

func (e *Editor) editButton(i, b int, fn func(*Button)) error {
	_, bs, err := e.buttonsAt(i)
	if err != nil {
		return err
	}
	if b < 0 || b >= len(bs) {
		return apperr.Validation(apperr.CodeButtonOutOfRange, buttonPath(i, b), "button %d out of range [0,%d)", b, len(bs))
	}
	fn(&bs[b])
	e.setButtons(i, bs)
	return nil
}
