package section

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

// Validate checks every section of ss and returns apperr.Problems, or nil
// when the list is valid.
func Validate(ss []Section) error {
	var out apperr.Problems
	for i, s := range ss {
		for _, err := range ValidateOne(fmt.Sprintf("sections[%d]", i), s) {
			if e, ok := apperr.As(err); ok {
				out = append(out, e)
			}
		}
	}
	return out.Err()
}

// ValidateOne checks one section; field paths are prefixed with at.
func ValidateOne(at string, s Section) []error {
	v, ok := Lookup(s.Type)
	if !ok {
		return []error{apperr.Validation(apperr.CodeUnknownType, at+".type", "unknown section type %q", s.Type)}
	}
	if s.bad != nil || !v.Accepts(s.Content) {
		return []error{apperr.Validation(apperr.CodeContentMismatch, at+".content", "content does not match type %s", s.Type)}
	}
	return v.validate(v, s, at)
}

func validateText(_ Variant, s Section, at string) []error {
	var errs []error
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, apperr.Validation(apperr.CodeTitleRequired, at+".title", "title is required"))
	}
	if strings.TrimSpace(string(s.Content.(Text))) == "" {
		errs = append(errs, apperr.Validation(apperr.CodeContentRequired, at+".content", "content is required"))
	}
	return errs
}

func validateBanner(v Variant, s Section, at string) []error {
	b := s.Content.(Banner)
	var errs []error
	switch {
	case strings.TrimSpace(b.Image) == "":
		errs = append(errs, apperr.Validation(apperr.CodeContentRequired, at+".content", "banner image is required"))
	case len(b.Image) > MaxImageBytes:
		errs = append(errs, apperr.Validation(apperr.CodeImageTooLarge, at+".content", "banner image is %d bytes, max %d", len(b.Image), MaxImageBytes))
	}
	return append(errs, checkButtons(v, b.Buttons, at+".content.buttons")...)
}

func validateButtons(v Variant, s Section, at string) []error {
	bs := s.Content.(Buttons)
	if len(bs) == 0 {
		return []error{apperr.Validation(apperr.CodeButtonsRequired, at+".content", "at least one button is required")}
	}
	return checkButtons(v, bs, at+".content")
}

func checkButtons(v Variant, bs []Button, at string) []error {
	var errs []error
	if len(bs) > v.MaxButtons {
		errs = append(errs, apperr.Validation(apperr.CodeButtonLimit, at, "%d buttons, max %d", len(bs), v.MaxButtons))
	}
	for i, b := range bs {
		errs = append(errs, checkButton(b, fmt.Sprintf("%s[%d]", at, i))...)
	}
	return errs
}

func checkButton(b Button, at string) []error {
	var errs []error
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, apperr.Validation(apperr.CodeButtonName, at+".name", "button name is required"))
	}
	action := strings.TrimSpace(b.Action)
	switch {
	case action == "":
		errs = append(errs, apperr.Validation(apperr.CodeButtonAction, at+".action", "button action is required"))
	case strings.HasPrefix(action, ExternalPrefix):
		if !isHTTPURL(strings.TrimPrefix(action, ExternalPrefix)) {
			errs = append(errs, apperr.Validation(apperr.CodeButtonURL, at+".action", "external action %q is not an http(s) URL", action))
		}
	}
	if b.Type != "" && b.Type != ButtonFilled && b.Type != ButtonOutlined {
		errs = append(errs, apperr.Validation(apperr.CodeButtonType, at+".type", "button type %q", b.Type))
	}
	return errs
}

func validateVideo(_ Variant, s Section, at string) []error {
	src := strings.TrimSpace(string(s.Content.(Video)))
	if src == "" {
		return []error{apperr.Validation(apperr.CodeContentRequired, at+".content", "video url is required")}
	}
	if !isHTTPURL(src) && !isRootRelative(src) {
		return []error{apperr.Validation(apperr.CodeVideoURLInvalid, at+".content", "video url %q", src)}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isRootRelative(raw string) bool {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return false
	}
	_, err := url.Parse(raw)
	return err == nil
}
