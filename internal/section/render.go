package section

import (
	"strings"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

// RenderContext carries what a renderer needs beyond the section itself.
type RenderContext struct {
	Slug string
}

// Link is a resolved button.
type Link struct {
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	Target   string     `json:"target"`
	Rel      string     `json:"rel,omitempty"`
	Kind     ButtonKind `json:"kind"`
	External bool       `json:"external"`
}

// Block is the public form of one section.
type Block struct {
	Type      Type   `json:"type"`
	SectionID string `json:"sectionId,omitempty"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text,omitempty"`
	Image     string `json:"image,omitempty"`
	VideoSrc  string `json:"videoSrc,omitempty"`
	Buttons   []Link `json:"buttons,omitempty"`
	FAQ       bool   `json:"faq,omitempty"`
}

// Render maps s to its block through the variant table. Unknown types and
// content that does not fit the type are integrity errors.
func Render(rc RenderContext, s Section) (Block, error) {
	v, ok := Lookup(s.Type)
	if !ok {
		return Block{}, apperr.Integrity(apperr.CodeUnknownType, "type", "unknown section type %q", s.Type)
	}
	if s.bad != nil || !v.Accepts(s.Content) {
		return Block{}, apperr.Integrity(apperr.CodeContentMismatch, "content", "content does not match type %s", s.Type)
	}
	return v.render(v, rc, s)
}

// ResolveAction turns a button action into a link. "blank:<url>" opens the
// URL in a new context; anything else is an anchor on the campaign page.
func ResolveAction(slug string, b Button) Link {
	kind := b.Type
	if kind == "" {
		kind = ButtonFilled
	}
	l := Link{Label: b.Name, Kind: kind}
	action := strings.TrimSpace(b.Action)
	if strings.HasPrefix(action, ExternalPrefix) {
		l.Href = strings.TrimSpace(strings.TrimPrefix(action, ExternalPrefix))
		l.Target = "_blank"
		l.Rel = "noopener noreferrer"
		l.External = true
		return l
	}
	l.Href = "/" + slug + "/#" + strings.TrimPrefix(action, "#")
	l.Target = "_self"
	return l
}

func resolveAll(slug string, bs []Button) []Link {
	if len(bs) == 0 {
		return nil
	}
	out := make([]Link, len(bs))
	for i, b := range bs {
		out[i] = ResolveAction(slug, b)
	}
	return out
}

func base(v Variant, s Section) Block {
	return Block{Type: s.Type, SectionID: s.SectionID, Title: s.Title, FAQ: v.FAQ}
}

func renderBanner(v Variant, rc RenderContext, s Section) (Block, error) {
	b := s.Content.(Banner)
	out := base(v, s)
	out.Image = b.Image
	out.Buttons = resolveAll(rc.Slug, b.Buttons)
	return out, nil
}

func renderText(v Variant, _ RenderContext, s Section) (Block, error) {
	out := base(v, s)
	out.Text = string(s.Content.(Text))
	return out, nil
}

func renderButtons(v Variant, rc RenderContext, s Section) (Block, error) {
	out := base(v, s)
	out.Buttons = resolveAll(rc.Slug, s.Content.(Buttons))
	return out, nil
}

func renderVideo(v Variant, _ RenderContext, s Section) (Block, error) {
	out := base(v, s)
	out.VideoSrc = strings.TrimSpace(string(s.Content.(Video)))
	return out, nil
}
