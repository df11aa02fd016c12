// Package builder keeps the server-side state of the campaign builder: one
// section editor plus the campaign form per edit session.
package builder

import (
	"context"
	"strings"
	"sync"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// Campaigns is the part of campaign.Service a session talks to.
type Campaigns interface {
	Get(ctx context.Context, p auth.Principal, slug string) (campaign.Campaign, error)
	Create(ctx context.Context, p auth.Principal, d campaign.Draft) (campaign.Campaign, error)
	Update(ctx context.Context, p auth.Principal, slug string, patch campaign.Patch) (campaign.Campaign, error)
}

// Form holds the campaign-level inputs of the builder.
type Form struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	IsActive        bool   `json:"isActive"`
	BackgroundColor string `json:"backgroundColor"`
}

// FormPatch changes some form fields; nil fields are kept.
type FormPatch struct {
	Name            *string `json:"name"`
	Slug            *string `json:"slug"`
	IsActive        *bool   `json:"isActive"`
	BackgroundColor *string `json:"backgroundColor"`
}

// Session is one builder. Its mutex serializes the requests that target it;
// Load releases it while the store round-trip is in flight.
type Session struct {
	ID    string
	Owner string

	campaigns Campaigns

	mu     sync.Mutex
	editor *section.Editor
	form   Form
	mode   Mode
	gen    uint64
}

func newSession(id string, owner auth.Principal, cs Campaigns) *Session {
	return &Session{
		ID:        id,
		Owner:     owner.ID,
		campaigns: cs,
		editor:    section.NewEditor(nil),
		form:      Form{IsActive: true, BackgroundColor: campaign.DefaultBackground},
		mode:      ModeCreate,
	}
}

// Do runs one editor operation under the session lock and counts it.
func (s *Session) Do(op string, fn func(e *section.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.editor)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EditorOpsTotal.WithLabelValues(op, result).Inc()
	return err
}

// SetForm applies p to the form. The slug of a saved campaign is fixed.
func (s *Session) SetForm(p FormPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Slug != nil && s.mode == ModeUpdate && strings.TrimSpace(*p.Slug) != s.form.Slug {
		return apperr.Validation(apperr.CodeSlugImmutable, "slug", "slug of %q cannot change", s.form.Slug)
	}
	if p.Name != nil {
		s.form.Name = *p.Name
	}
	if p.Slug != nil {
		s.form.Slug = strings.TrimSpace(*p.Slug)
	}
	if p.IsActive != nil {
		s.form.IsActive = *p.IsActive
	}
	if p.BackgroundColor != nil {
		s.form.BackgroundColor = *p.BackgroundColor
	}
	return nil
}

// Load replaces the session state with the stored campaign. A load that was
// overtaken by a later one discards its result and returns ErrSuperseded.
func (s *Session) Load(ctx context.Context, p auth.Principal, slug string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	c, err := s.campaigns.Get(ctx, p, slug)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return apperr.ErrSuperseded
	}
	if err != nil {
		return err
	}
	s.adopt(c)
	return nil
}

// Submit saves the form and sections: a create in create mode, an update of
// the loaded campaign otherwise. On failure the session state is unchanged.
func (s *Session) Submit(ctx context.Context, p auth.Principal) (campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss := s.editor.Normalized()
	form := s.form

	var (
		c   campaign.Campaign
		err error
	)
	if s.mode == ModeCreate {
		c, err = s.campaigns.Create(ctx, p, campaign.Draft{
			Name:            form.Name,
			Slug:            form.Slug,
			Sections:        ss,
			IsActive:        &form.IsActive,
			BackgroundColor: form.BackgroundColor,
		})
	} else {
		c, err = s.campaigns.Update(ctx, p, form.Slug, campaign.Patch{
			Name:            &form.Name,
			Sections:        &ss,
			IsActive:        &form.IsActive,
			BackgroundColor: &form.BackgroundColor,
		})
	}
	if err != nil {
		metrics.EditorOpsTotal.WithLabelValues("submit", "error").Inc()
		return campaign.Campaign{}, err
	}
	metrics.EditorOpsTotal.WithLabelValues("submit", "ok").Inc()
	s.gen++
	s.adopt(c)
	return c, nil
}

func (s *Session) adopt(c campaign.Campaign) {
	s.editor.Reset(c.Sections)
	s.form = Form{
		Name:            c.Name,
		Slug:            c.Slug,
		IsActive:        c.IsActive,
		BackgroundColor: c.BackgroundColor,
	}
	s.mode = ModeUpdate
}

// SectionView is one section with the builder inputs of its variant.
type SectionView struct {
	Index   int                 `json:"index"`
	Label   string              `json:"label"`
	Section section.Section     `json:"section"`
	Fields  []section.FormField `json:"fields"`
}

type View struct {
	ID         string        `json:"id"`
	Mode       Mode          `json:"mode"`
	Generation uint64        `json:"generation"`
	Form       Form          `json:"form"`
	Sections   []SectionView `json:"sections"`
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.editor.Sections()
	v := View{
		ID:         s.ID,
		Mode:       s.mode,
		Generation: s.gen,
		Form:       s.form,
		Sections:   make([]SectionView, len(ss)),
	}
	for i, sec := range ss {
		sv := SectionView{Index: i, Section: sec}
		if vr, ok := section.Lookup(sec.Type); ok {
			sv.Label = vr.LabelKey
			sv.Fields = vr.Fields
		}
		v.Sections[i] = sv
	}
	return v
}
