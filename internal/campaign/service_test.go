package campaign_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/internal/store"
	"github.com/Mutter0815/PageBuilder/pkg/model"
)

type recordingPub struct {
	fail   bool
	events []model.CampaignEvent
}

func (p *recordingPub) PublishJSON(_ context.Context, body []byte) error {
	if p.fail {
		return errors.New("broker down")
	}
	var ev model.CampaignEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	p.events = append(p.events, ev)
	return nil
}

var (
	admin  = auth.Principal{ID: "u1", Username: "admin", Role: auth.RoleAdmin}
	editor = auth.Principal{ID: "u2", Username: "ed", Role: auth.RoleUser}
)

func springSections() []section.Section {
	return []section.Section{
		{Title: "Hi", Type: section.TypeHeader, Content: section.Text("Welcome")},
		{Type: section.TypeButtons, Content: section.Buttons{{Name: "Go", Action: "intro"}}},
	}
}

func TestService_CreateThenGet(t *testing.T) {
	pub := &recordingPub{}
	svc := campaign.NewService(store.NewMemory(), pub)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, campaign.Draft{Name: "Spring Sale", Slug: "spring-sale", Sections: springSections()})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, campaign.DefaultBackground, created.BackgroundColor)
	assert.Equal(t, "u1", created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, admin, "spring-sale")
	require.NoError(t, err)
	assert.Equal(t, "Spring Sale", got.Name)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, 1, got.Sections[0].Order)
	assert.Equal(t, 2, got.Sections[1].Order)
	assert.Equal(t, section.ButtonFilled, got.Sections[1].Content.(section.Buttons)[0].Type)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.CampaignCreated, pub.events[0].Type)
	assert.Equal(t, "spring-sale", pub.events[0].Slug)
	assert.Equal(t, "u1", pub.events[0].ActorID)
}

func TestService_SlugDerivedFromName(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), nil)
	c, err := svc.Create(context.Background(), admin, campaign.Draft{Name: "  Café Été 2025! "})
	require.NoError(t, err)
	assert.Equal(t, "cafe-ete-2025", c.Slug)
	assert.Equal(t, "Café Été 2025!", c.Name)
}

func TestService_DuplicatePromo(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, campaign.Draft{Name: "Promo", Slug: "promo"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, campaign.Draft{Name: "Promo again", Slug: "promo"})
	require.ErrorIs(t, err, apperr.ErrSlugTaken)

	first, err := svc.Get(ctx, admin, "promo")
	require.NoError(t, err)
	assert.Equal(t, "Promo", first.Name)
}

func TestService_CreateCollectsProblems(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), nil)
	_, err := svc.Create(context.Background(), admin, campaign.Draft{
		Slug:            "Bad Slug",
		BackgroundColor: "white",
		Sections:        []section.Section{{Type: section.TypeHeader, Content: section.Text("x")}},
	})
	var probs apperr.Problems
	require.ErrorAs(t, err, &probs)

	codes := map[string]apperr.Code{}
	for _, p := range probs {
		codes[p.Field] = p.Code
	}
	assert.Equal(t, apperr.CodeNameRequired, codes["name"])
	assert.Equal(t, apperr.CodeSlugInvalid, codes["slug"])
	assert.Equal(t, apperr.CodeColorInvalid, codes["backgroundColor"])
	assert.Equal(t, apperr.CodeTitleRequired, codes["sections[0].title"])
}

func TestService_RequiresAdmin(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, auth.Principal{}, campaign.Draft{Name: "X"})
	assert.Equal(t, apperr.CodeAuthRequired, apperr.CodeOf(err))

	_, err = svc.Create(ctx, editor, campaign.Draft{Name: "X"})
	assert.Equal(t, apperr.CodeAuthForbidden, apperr.CodeOf(err))

	_, err = svc.List(ctx, editor, campaign.ListQuery{})
	assert.Equal(t, apperr.CodeAuthForbidden, apperr.CodeOf(err))

	err = svc.Delete(ctx, editor, "x")
	assert.Equal(t, apperr.CodeAuthForbidden, apperr.CodeOf(err))
}

func TestService_UpdateReplacesSections(t *testing.T) {
	pub := &recordingPub{}
	svc := campaign.NewService(store.NewMemory(), pub)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, campaign.Draft{Name: "Spring Sale", Sections: springSections()})
	require.NoError(t, err)

	ss := []section.Section{{Type: section.TypeVideo, Order: 7, Content: section.Video("https://v.example/1")}}
	name := "  Spring Sale II "
	got, err := svc.Update(ctx, admin, "spring-sale", campaign.Patch{Name: &name, Sections: &ss})
	require.NoError(t, err)
	assert.Equal(t, "Spring Sale II", got.Name)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, 1, got.Sections[0].Order)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

	require.Len(t, pub.events, 2)
	assert.Equal(t, model.CampaignUpdated, pub.events[1].Type)

	bad := "nope"
	_, err = svc.Update(ctx, admin, "spring-sale", campaign.Patch{BackgroundColor: &bad})
	assert.Equal(t, apperr.CodeColorInvalid, apperr.CodeOf(err))

	_, err = svc.Update(ctx, admin, "ghost", campaign.Patch{})
	assert.ErrorIs(t, err, apperr.ErrCampaignNotFound)
}

func TestService_DeleteGhost(t *testing.T) {
	pub := &recordingPub{}
	svc := campaign.NewService(store.NewMemory(), pub)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, campaign.Draft{Name: "Keep"})
	require.NoError(t, err)

	err = svc.Delete(ctx, admin, "ghost")
	require.ErrorIs(t, err, apperr.ErrCampaignNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	res, err := svc.List(ctx, admin, campaign.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	assert.Len(t, pub.events, 1)

	require.NoError(t, svc.Delete(ctx, admin, "keep"))
	assert.Equal(t, model.CampaignDeleted, pub.events[1].Type)
}

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), &recordingPub{fail: true})
	_, err := svc.Create(context.Background(), admin, campaign.Draft{Name: "Quiet"})
	require.NoError(t, err)
}

func TestService_PublicHidesInactive(t *testing.T) {
	svc := campaign.NewService(store.NewMemory(), nil)
	ctx := context.Background()
	off := false
	_, err := svc.Create(ctx, admin, campaign.Draft{Name: "Hidden", IsActive: &off})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, campaign.Draft{Name: "Shown"})
	require.NoError(t, err)

	_, err = svc.Public(ctx, "hidden")
	assert.ErrorIs(t, err, apperr.ErrCampaignNotFound)

	c, err := svc.Public(ctx, "shown")
	require.NoError(t, err)
	assert.Equal(t, "Shown", c.Name)

	// admins still see it
	_, err = svc.Get(ctx, admin, "hidden")
	assert.NoError(t, err)
}
