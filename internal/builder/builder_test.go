package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/internal/store"
)

var (
	admin = auth.Principal{ID: "u1", Username: "admin", Role: auth.RoleAdmin}
	other = auth.Principal{ID: "u9", Username: "other", Role: auth.RoleAdmin}
)

// gated blocks Get for the "slow" slug until gate is closed.
type gated struct {
	*campaign.Service
	started chan struct{}
	gate    chan struct{}
}

func (g *gated) Get(ctx context.Context, p auth.Principal, slug string) (campaign.Campaign, error) {
	if slug == "slow" {
		close(g.started)
		<-g.gate
	}
	return g.Service.Get(ctx, p, slug)
}

func seeded(t *testing.T, names ...string) *campaign.Service {
	t.Helper()
	svc := campaign.NewService(store.NewMemory(), nil)
	for _, n := range names {
		_, err := svc.Create(context.Background(), admin, campaign.Draft{
			Name: n,
			Sections: []section.Section{
				{Title: n, Type: section.TypeHeader, Content: section.Text("about " + n)},
			},
		})
		require.NoError(t, err)
	}
	return svc
}

func fillBanner(e *section.Editor) error {
	i := e.Add()
	return e.Update(i, section.FieldContent, "data:image/png;base64,AAAA")
}

func TestSession_CreateSubmitSwitchesToUpdate(t *testing.T) {
	r := NewRegistry(seeded(t), time.Minute)
	s := r.Open(admin)

	name := "Spring Sale"
	require.NoError(t, s.SetForm(FormPatch{Name: &name}))
	require.NoError(t, s.Do("add", fillBanner))

	c, err := s.Submit(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "spring-sale", c.Slug)

	v := s.View()
	assert.Equal(t, ModeUpdate, v.Mode)
	assert.Equal(t, "spring-sale", v.Form.Slug)
	require.Len(t, v.Sections, 1)
	assert.Equal(t, "section.banner", v.Sections[0].Label)
	assert.NotEmpty(t, v.Sections[0].Fields)

	slug := "changed"
	err = s.SetForm(FormPatch{Slug: &slug})
	assert.Equal(t, apperr.CodeSlugImmutable, apperr.CodeOf(err))
}

func TestSession_FailedCreateKeepsForm(t *testing.T) {
	r := NewRegistry(seeded(t, "Promo"), time.Minute)
	s := r.Open(admin)

	name, slug := "Promo again", "promo"
	require.NoError(t, s.SetForm(FormPatch{Name: &name, Slug: &slug}))
	require.NoError(t, s.Do("add", fillBanner))
	before := s.View()

	_, err := s.Submit(context.Background(), admin)
	require.ErrorIs(t, err, apperr.ErrSlugTaken)
	assert.Equal(t, before, s.View())
}

func TestSession_FailedUpdateKeepsForm(t *testing.T) {
	r := NewRegistry(seeded(t, "Winter"), time.Minute)
	s := r.Open(admin)
	require.NoError(t, s.Load(context.Background(), admin, "winter"))

	color := "blue"
	require.NoError(t, s.SetForm(FormPatch{BackgroundColor: &color}))
	require.NoError(t, s.Do("remove", func(e *section.Editor) error {
		e.Remove(0)
		return nil
	}))
	before := s.View()

	_, err := s.Submit(context.Background(), admin)
	require.Error(t, err)
	assert.Equal(t, before, s.View())
	assert.Equal(t, "blue", s.View().Form.BackgroundColor)
	assert.Empty(t, s.View().Sections)
}

func TestSession_SupersededLoadIsDiscarded(t *testing.T) {
	g := &gated{Service: seeded(t, "Slow", "Fast"), started: make(chan struct{}), gate: make(chan struct{})}
	r := NewRegistry(g, time.Minute)
	s := r.Open(admin)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background(), admin, "slow") }()
	<-g.started

	require.NoError(t, s.Load(context.Background(), admin, "fast"))
	close(g.gate)

	require.ErrorIs(t, <-done, apperr.ErrSuperseded)
	v := s.View()
	assert.Equal(t, "fast", v.Form.Slug)
	assert.Equal(t, "Fast", v.Sections[0].Section.Title)
}

func TestSession_LoadMissing(t *testing.T) {
	r := NewRegistry(seeded(t), time.Minute)
	s := r.Open(admin)
	err := s.Load(context.Background(), admin, "ghost")
	assert.ErrorIs(t, err, apperr.ErrCampaignNotFound)
	assert.Equal(t, ModeCreate, s.View().Mode)
}

func TestSession_DoReportsEditorErrors(t *testing.T) {
	r := NewRegistry(seeded(t), time.Minute)
	s := r.Open(admin)
	err := s.Do("update", func(e *section.Editor) error {
		return e.Update(3, section.FieldTitle, "x")
	})
	assert.Equal(t, apperr.CodeIndexOutOfRange, apperr.CodeOf(err))
}

func TestRegistry_OwnershipAndExpiry(t *testing.T) {
	r := NewRegistry(seeded(t), time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s := r.Open(admin)
	got, err := r.Get(s.ID, admin)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(s.ID, other)
	assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))

	now = now.Add(59 * time.Second)
	_, err = r.Get(s.ID, admin)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = r.Get(s.ID, admin)
	assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry(seeded(t), time.Minute)
	s := r.Open(admin)
	assert.Error(t, r.Close(s.ID, other))
	require.NoError(t, r.Close(s.ID, admin))
	assert.Error(t, r.Close(s.ID, admin))
}
