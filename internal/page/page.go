// Package page composes the public campaign page from its stored sections.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/language"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/pkg/i18n"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates holds page.html, notice.html and the per-type block templates.
var Templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Raw HTML in markdown input is escaped (WithUnsafe is not set).
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// BlockView is a rendered block plus its HTML.
type BlockView struct {
	section.Block
	Body     template.HTML `json:"-"`
	ImageSrc template.URL  `json:"-"`
	Markup   template.HTML `json:"html"`
}

type Page struct {
	Name            string       `json:"name"`
	Slug            string       `json:"slug"`
	BackgroundColor string       `json:"backgroundColor"`
	Lang            string       `json:"lang"`
	Dir             string       `json:"dir"`
	Blocks          []BlockView  `json:"blocks"`
	FAQHeading      string       `json:"faqHeading,omitempty"`
	FAQ             []BlockView  `json:"faq"`
	Style           template.CSS `json:"-"`

	// Problems are the integrity errors of sections left out of the page.
	Problems []error `json:"-"`
}

// Compose renders every section of c in stored order. moreInfo sections are
// moved, in their relative order, into the trailing FAQ group. Sections that
// cannot be rendered are skipped, logged and counted.
func Compose(c campaign.Campaign, tag language.Tag) Page {
	p := Page{
		Name:            c.Name,
		Slug:            c.Slug,
		BackgroundColor: c.BackgroundColor,
		Lang:            tag.String(),
		Dir:             dir(tag),
		Blocks:          []BlockView{},
		FAQ:             []BlockView{},
	}
	if !campaign.ValidColor(p.BackgroundColor) {
		p.BackgroundColor = campaign.DefaultBackground
	}
	p.Style = template.CSS("background-color: " + p.BackgroundColor)

	rc := section.RenderContext{Slug: c.Slug}
	for i, s := range c.Sections {
		b, err := section.Render(rc, s)
		if err == nil {
			var bv BlockView
			bv, err = view(b)
			if err == nil {
				if b.FAQ {
					p.FAQ = append(p.FAQ, bv)
				} else {
					p.Blocks = append(p.Blocks, bv)
				}
				continue
			}
		}
		p.Problems = append(p.Problems, err)
		code := apperr.CodeOf(err)
		metrics.PageIntegrityErrors.WithLabelValues(string(code)).Inc()
		logx.L().Warnw("page_integrity_error", "slug", c.Slug, "index", i, "type", s.Type, "code", code, "error", err)
	}
	if len(p.FAQ) > 0 {
		p.FAQHeading = i18n.T(tag, "page.faq_heading")
	}

	result := "ok"
	if len(p.Problems) > 0 {
		result = "partial"
	}
	metrics.PageRendersTotal.WithLabelValues(result).Inc()
	return p
}

func view(b section.Block) (BlockView, error) {
	bv := BlockView{Block: b, ImageSrc: imageURL(b.Image)}
	if b.Text != "" {
		bv.Body = markdown(b.Text)
	}
	var buf bytes.Buffer
	if err := Templates.ExecuteTemplate(&buf, "block-"+string(b.Type), bv); err != nil {
		return BlockView{}, apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, err, "render %s block", b.Type)
	}
	bv.Markup = template.HTML(buf.String())
	return bv, nil
}

func markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// imageURL passes embedded images and http(s) links; anything else is
// dropped.
func imageURL(src string) template.URL {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//"):
		return template.URL(src)
	}
	return ""
}

func dir(tag language.Tag) string {
	if i18n.IsRTL(tag) {
		return "rtl"
	}
	return "ltr"
}

// Notice is the body of the not-found and error pages.
type Notice struct {
	Lang    string `json:"lang"`
	Dir     string `json:"dir"`
	Message string `json:"error"`
}

func NewNotice(tag language.Tag, key string) Notice {
	return Notice{Lang: tag.String(), Dir: dir(tag), Message: i18n.T(tag, key)}
}

// NotFound is the public answer for missing and inactive campaigns.
func NotFound(tag language.Tag) Notice { return NewNotice(tag, "page.not_found") }

// Render writes the full HTML document of p.
func Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := Templates.ExecuteTemplate(&buf, "page.html", p); err != nil {
		return nil, fmt.Errorf("render page %s: %w", p.Slug, err)
	}
	return buf.Bytes(), nil
}
