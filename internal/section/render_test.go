package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

func TestResolveAction(t *testing.T) {
	ext := ResolveAction("spring-sale", Button{Name: "Go", Action: "blank:https://x.com"})
	assert.Equal(t, Link{
		Label:    "Go",
		Href:     "https://x.com",
		Target:   "_blank",
		Rel:      "noopener noreferrer",
		Kind:     ButtonFilled,
		External: true,
	}, ext)

	in := ResolveAction("spring-sale", Button{Name: "Intro", Action: "intro", Type: ButtonOutlined})
	assert.Equal(t, Link{
		Label:  "Intro",
		Href:   "/spring-sale/#intro",
		Target: "_self",
		Kind:   ButtonOutlined,
	}, in)
}

func TestRender_EachVariant(t *testing.T) {
	rc := RenderContext{Slug: "promo"}
	ss := sample()
	blocks := make([]Block, len(ss))
	for i, s := range ss {
		b, err := Render(rc, s)
		require.NoError(t, err, "section %d", i)
		blocks[i] = b
	}

	assert.Equal(t, "data:image/png;base64,AAAA", blocks[0].Image)
	assert.Equal(t, "top", blocks[0].SectionID)
	require.Len(t, blocks[1].Buttons, 1)
	assert.True(t, blocks[1].Buttons[0].External)
	assert.Equal(t, "Welcome", blocks[2].Text)
	assert.Equal(t, "Hi", blocks[2].Title)
	assert.False(t, blocks[2].FAQ)
	assert.Equal(t, "/promo/#intro", blocks[3].Buttons[0].Href)
	assert.Equal(t, "/promo/#faq", blocks[3].Buttons[1].Href)
	assert.Equal(t, "https://www.youtube.com/embed/xyz", blocks[4].VideoSrc)
	assert.True(t, blocks[5].FAQ)
}

func TestRender_IntegrityErrors(t *testing.T) {
	_, err := Render(RenderContext{}, Section{Type: "carousel"})
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeUnknownType})
	assert.Equal(t, apperr.KindIntegrity, apperr.KindOf(err))

	_, err = Render(RenderContext{}, Section{Type: TypeVideo, Content: Text("x")})
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeContentMismatch})
	assert.Equal(t, apperr.KindIntegrity, apperr.KindOf(err))
}

func TestVariants_TableIsComplete(t *testing.T) {
	for _, typ := range []Type{TypeBanner, TypeHeader, TypeButtons, TypeVideo, TypeMoreInfo} {
		v, ok := Lookup(typ)
		require.True(t, ok, typ)
		assert.NotEmpty(t, v.LabelKey)
		assert.NotEmpty(t, v.Fields)
		assert.True(t, v.Accepts(v.Empty()), "%s must accept its empty payload", typ)
		assert.NotNil(t, v.validate)
		assert.NotNil(t, v.render)
	}
	assert.Len(t, Variants, 5)
	_, ok := Lookup("carousel")
	assert.False(t, ok)
}
