// Package campaign holds the campaign model and the admin-gated operations
// on it. Persistence is delegated to a Store.
package campaign

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
	"github.com/Mutter0815/PageBuilder/pkg/model"
)

type Service struct {
	store Store
	pub   Publisher
	now   func() time.Time
}

// NewService wires a store and an optional publisher (nil disables events).
func NewService(st Store, pub Publisher) *Service {
	return &Service{store: st, pub: pub, now: time.Now}
}

func (s *Service) Create(ctx context.Context, p auth.Principal, d Draft) (Campaign, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return Campaign{}, err
	}
	c := Campaign{
		Name:            strings.TrimSpace(d.Name),
		Slug:            strings.TrimSpace(d.Slug),
		Sections:        section.Normalize(d.Sections),
		IsActive:        true,
		BackgroundColor: strings.TrimSpace(d.BackgroundColor),
		CreatedBy:       p.ID,
	}
	if d.IsActive != nil {
		c.IsActive = *d.IsActive
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = DefaultBackground
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}

	var probs apperr.Problems
	if c.Name == "" {
		probs = append(probs, apperr.Validation(apperr.CodeNameRequired, "name", "name is required"))
	}
	if !ValidSlug(c.Slug) {
		probs = append(probs, apperr.Validation(apperr.CodeSlugInvalid, "slug", "invalid slug %q", c.Slug))
	}
	if !ValidColor(c.BackgroundColor) {
		probs = append(probs, apperr.Validation(apperr.CodeColorInvalid, "backgroundColor", "invalid color %q", c.BackgroundColor))
	}
	probs = appendSectionProblems(probs, c.Sections)
	if err := probs.Err(); err != nil {
		return Campaign{}, err
	}

	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.store.CreateCampaign(ctx, &c); err != nil {
		logx.L().Warnw("campaign_create_error", "slug", c.Slug, "error", err)
		return Campaign{}, err
	}
	s.publish(model.CampaignCreated, c.Slug, p.ID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, p auth.Principal, slug string, patch Patch) (Campaign, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return Campaign{}, err
	}
	var probs apperr.Problems
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		if name == "" {
			probs = append(probs, apperr.Validation(apperr.CodeNameRequired, "name", "name is required"))
		}
	}
	if patch.BackgroundColor != nil && !ValidColor(*patch.BackgroundColor) {
		probs = append(probs, apperr.Validation(apperr.CodeColorInvalid, "backgroundColor", "invalid color %q", *patch.BackgroundColor))
	}
	if patch.Sections != nil {
		ss := section.Normalize(*patch.Sections)
		patch.Sections = &ss
		probs = appendSectionProblems(probs, ss)
	}
	if err := probs.Err(); err != nil {
		return Campaign{}, err
	}

	patch.UpdatedAt = s.now().UTC()
	c, err := s.store.UpdateCampaign(ctx, slug, patch)
	if err != nil {
		logx.L().Warnw("campaign_update_error", "slug", slug, "error", err)
		return Campaign{}, err
	}
	s.publish(model.CampaignUpdated, c.Slug, p.ID)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, slug string) error {
	if err := auth.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.store.DeleteCampaign(ctx, slug); err != nil {
		logx.L().Warnw("campaign_delete_error", "slug", slug, "error", err)
		return err
	}
	s.publish(model.CampaignDeleted, slug, p.ID)
	return nil
}

// Get reads any campaign, active or not, for the admin side.
func (s *Service) Get(ctx context.Context, p auth.Principal, slug string) (Campaign, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return Campaign{}, err
	}
	return s.store.GetCampaign(ctx, slug)
}

func (s *Service) List(ctx context.Context, p auth.Principal, q ListQuery) (ListResult, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return ListResult{}, err
	}
	return s.store.ListCampaigns(ctx, q.Normalize())
}

// Public reads a campaign for the public page. Inactive campaigns are not
// found.
func (s *Service) Public(ctx context.Context, slug string) (Campaign, error) {
	c, err := s.store.GetCampaign(ctx, slug)
	if err != nil {
		return Campaign{}, err
	}
	if !c.IsActive {
		return Campaign{}, apperr.NotFound(apperr.CodeCampaignNotFound, "campaign %q is inactive", slug)
	}
	return c, nil
}

func appendSectionProblems(probs apperr.Problems, ss []section.Section) apperr.Problems {
	if err := section.Validate(ss); err != nil {
		if p, ok := err.(apperr.Problems); ok {
			return append(probs, p...)
		}
	}
	return probs
}

// publish emits an event without failing the mutation that caused it.
func (s *Service) publish(typ model.EventType, slug, actor string) {
	if s.pub == nil {
		return
	}
	payload, err := json.Marshal(model.CampaignEvent{Type: typ, Slug: slug, ActorID: actor, At: s.now().UTC()})
	if err != nil {
		logx.L().Errorw("event_marshal_error", "type", typ, "slug", slug, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.pub.PublishJSON(ctx, payload); err != nil {
		metrics.EventsPublishFailed.Inc()
		logx.L().Errorw("publish_event_error", "type", typ, "slug", slug, "error", err)
		return
	}
	metrics.EventsPublishedTotal.Inc()
}
